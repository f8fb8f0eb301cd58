package vendorcredit

import "slices"

var caseTransitions = map[CaseStatus][]CaseStatus{
	CaseStatusNew:            {CaseStatusNeedsInfo, CaseStatusReadyToSubmit, CaseStatusClosed},
	CaseStatusNeedsInfo:      {CaseStatusReadyToSubmit, CaseStatusClosed},
	CaseStatusReadyToSubmit:  {CaseStatusSubmitted, CaseStatusNeedsInfo},
	CaseStatusSubmitted:      {CaseStatusApproved, CaseStatusDenied, CaseStatusNeedsInfo},
	CaseStatusApproved:       {CaseStatusCreditReceived, CaseStatusClosed},
	CaseStatusDenied:         {CaseStatusClosed, CaseStatusNeedsInfo},
	CaseStatusCreditReceived: {CaseStatusClosed},
	CaseStatusClosed:         {},
}

var openStatuses = []CaseStatus{
	CaseStatusNew,
	CaseStatusNeedsInfo,
	CaseStatusReadyToSubmit,
	CaseStatusSubmitted,
	CaseStatusApproved,
	CaseStatusDenied,
}

// CanTransition reports whether a case may move from current to next,
// staying in the same status is always allowed
func CanTransition(current, next CaseStatus) bool {
	if current == next {
		return true
	}
	return slices.Contains(caseTransitions[current], next)
}

func NextStatuses(current CaseStatus) []CaseStatus {
	return slices.Clone(caseTransitions[current])
}

// OpenStatuses returns a copy so callers can build query arguments
// from it freely
func OpenStatuses() []CaseStatus {
	return slices.Clone(openStatuses)
}

func (s CaseStatus) IsOpen() bool {
	return slices.Contains(openStatuses, s)
}

func (s CaseStatus) IsValid() bool {
	_, ok := caseTransitions[s]
	return ok
}

func (t EvidenceType) IsValid() bool {
	return slices.Contains(EvidenceTypes, t)
}

func (m DedupeMode) IsValid() bool {
	return m == DedupeModeSkip || m == DedupeModeUpdate
}
