package worker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"tradedesk/internal/common"
	"tradedesk/internal/queue"
	"tradedesk/internal/vendorcredit"
)

// handleImportJobMessage processes the job whose id is the message body.
// Jobs that cannot be processed any more are acknowledged, anything
// else is returned so that the message gets redelivered
func (w *Worker) handleImportJobMessage(ctx context.Context, message queue.Message) error {
	jobId := strings.TrimSpace(string(message.Data))
	if jobId == "" {
		w.serviceLogs <- common.ServiceLogf(common.LogLevelWarn, "dropping empty import message on subject[%s]", message.Subject)
		importMessagesCounter.WithLabelValues("dropped").Inc()
		return nil
	}

	summary, err := w.importer.ProcessJob(ctx, jobId)
	if err != nil {
		if isTerminalImportError(err) {
			w.serviceLogs <- common.ServiceLogf(common.LogLevelInfo, "skipping import job[%s]: %s", jobId, err)
			importMessagesCounter.WithLabelValues("skipped").Inc()
			return nil
		}
		importMessagesCounter.WithLabelValues("failed").Inc()
		return fmt.Errorf("failed to process import job[%s]: %w", jobId, err)
	}
	w.serviceLogs <- common.ServiceLogf(
		common.LogLevelInfo,
		"processed import job[%s] from subject[%s]: created[%v] updated[%v] skipped[%v]",
		jobId, message.Subject, summary.Created, summary.Updated, summary.Skipped,
	)
	importMessagesCounter.WithLabelValues("processed").Inc()
	return nil
}

// isTerminalImportError is true when a redelivery cannot succeed, a job
// that was already picked up by the cron sweep reports not ready
func isTerminalImportError(err error) bool {
	return errors.Is(err, vendorcredit.ErrorImportJobNotFound) ||
		errors.Is(err, vendorcredit.ErrorImportJobNotReady) ||
		errors.Is(err, vendorcredit.ErrorImportMappingMissing)
}
