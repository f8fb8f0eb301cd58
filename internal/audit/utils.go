package audit

import "fmt"

func Interpret(log LogEntry) string {
	switch log.Verb {
	case Accept:
		if log.ResourceType == InvitationResource {
			return "Accepted an invitation"
		}
	case Create:
		switch log.ResourceType {
		case ClaimTemplateResource:
			return fmt.Sprintf("Created a claim template (ID: %s)", log.ResourceId)
		case FilterResource:
			return fmt.Sprintf("Added a filter (ID: %s)", log.ResourceId)
		case InvitationResource:
			return "Invited a user"
		case OrgResource:
			return fmt.Sprintf("Created an organisation (ID: %s)", log.ResourceId)
		case UserResource:
			return "Created account"
		case VendorResource:
			return fmt.Sprintf("Created a vendor (ID: %s)", log.ResourceId)
		}
	case Delete:
		switch log.ResourceType {
		case FilterResource:
			return fmt.Sprintf("Deleted filter with ID %s", log.ResourceId)
		case MembershipResource:
			return "Removed a member"
		}
	case Enable, Disable:
		if log.ResourceType == ReminderPolicyResource {
			return fmt.Sprintf("Set reminder policy %s to %s", log.ResourceId, log.Verb)
		}
	case Execute:
		if log.ResourceType == ReminderCycleResource {
			return "Ran the reminder cycle"
		}
	case Import:
		return fmt.Sprintf("Imported %s records", log.ResourceType)
	case Login:
		return "Logged into Tradedesk"
	case Logout:
		return "Logged out of Tradedesk"
	case Update:
		switch log.ResourceType {
		case ClaimTemplateResource:
			return fmt.Sprintf("Updated claim template with ID %s", log.ResourceId)
		case ReminderPolicyResource:
			return fmt.Sprintf("Updated reminder policy with ID %s", log.ResourceId)
		}
	}
	return fmt.Sprintf(
		"Entity[%s[%s]] performed action[%s] on Resource[%s[%s]]",
		log.EntityType,
		log.EntityId,
		log.Verb,
		log.ResourceType,
		log.ResourceId,
	)
}
