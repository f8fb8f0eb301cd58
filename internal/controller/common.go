package controller

import (
	"database/sql"
	"net/url"
	"time"
	"tradedesk/internal/cache"
	"tradedesk/internal/common"
	"tradedesk/internal/email"
	"tradedesk/internal/queue"
	"tradedesk/internal/reminders"
	"tradedesk/internal/vendorcredit"
)

const (
	sessionTtl = 12 * time.Hour

	// maxUploadSizeBytes bounds multipart CSV uploads
	maxUploadSizeBytes = 20 * 1024 * 1024
)

var cacheInstance cache.Cache
var cronSecret string
var dbInstance *sql.DB
var emailSender email.Sender
var importBatchSize = vendorcredit.ImportCronBatchSize
var importer *vendorcredit.Importer
var publicServerUrl *url.URL
var queueInstance queue.Instance
var reminderRunner *reminders.Runner
var serviceLogs *chan<- common.ServiceLog
var sessionSigningToken string

// now is swapped in tests
var now = time.Now
