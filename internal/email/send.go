package email

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"mime/multipart"
	"mime/quotedprintable"
	"net/smtp"
	"net/textproto"
	"sort"
	"strings"
	"tradedesk/internal/common"
)

// sendMail is swapped out in tests
var sendMail = smtp.SendMail

type SendSmtpOpts struct {
	To     []User
	Cc     []User
	Bcc    []User
	Sender User

	Smtp        SmtpConfig
	Message     Message
	ServiceLogs chan<- common.ServiceLog
}

type Message struct {
	Body   []byte
	Title  string
	Images map[string]MessageAttachment
}

type MessageAttachment struct {
	Data []byte
	Type string
}

type User struct {
	Address string
	Name    string
}

func (u User) String() string {
	if u.Name != "" {
		return fmt.Sprintf("%s <%s>", u.Name, u.Address)
	}
	return u.Address
}

func (o SendSmtpOpts) Validate() error {
	errs := []error{}

	if len(o.To) == 0 {
		errs = append(errs, fmt.Errorf("missing receivers"))
	} else {
		for receiverIndex, receiver := range o.To {
			if receiver.Address == "" {
				errs = append(errs, fmt.Errorf("missing receiver address for receiver[%v]", receiverIndex))
			}
		}
	}
	if o.Sender.Address == "" {
		errs = append(errs, fmt.Errorf("missing sender address"))
	}
	if o.Message.Title == "" {
		errs = append(errs, fmt.Errorf("missing message title"))
	}
	if len(o.Message.Body) == 0 {
		errs = append(errs, fmt.Errorf("missing message body"))
	}
	if o.Smtp.Hostname == "" {
		errs = append(errs, fmt.Errorf("missing smtp hostname"))
	}
	if o.Smtp.Port == 0 {
		errs = append(errs, fmt.Errorf("missing smtp port"))
	}

	if len(errs) > 0 {
		errs = append([]error{ErrorInvalidInput}, errs...)
		return errors.Join(errs...)
	}
	return nil
}

func SendSmtp(opts SendSmtpOpts) error {
	serviceLogs := opts.ServiceLogs
	if serviceLogs == nil {
		serviceLogs = common.GetNoopServiceLog()
	}

	if err := opts.Validate(); err != nil {
		return fmt.Errorf("failed to validate input to SendSmtp: %w", err)
	}

	message := composeMessage(opts)
	serviceLogs <- common.ServiceLogf(common.LogLevelDebug, "message composed successfully (%v bytes)", len(message))

	smtpAddr := fmt.Sprintf("%s:%v", opts.Smtp.Hostname, opts.Smtp.Port)
	var auth smtp.Auth
	if opts.Smtp.Username != "" {
		auth = smtp.PlainAuth("", opts.Smtp.Username, opts.Smtp.Password, opts.Smtp.Hostname)
	}
	allRecipients := []string{}
	for _, group := range [][]User{opts.To, opts.Cc, opts.Bcc} {
		for _, receiver := range group {
			allRecipients = append(allRecipients, receiver.Address)
		}
	}
	if err := sendMail(smtpAddr, auth, opts.Sender.Address, allRecipients, message); err != nil {
		return fmt.Errorf("%w: %w", ErrorSendFailed, err)
	}

	serviceLogs <- common.ServiceLogf(common.LogLevelDebug, "email sent successfully to people['%s'] from address[%s]", strings.Join(allRecipients, "', '"), opts.Sender.Address)
	return nil
}

// composeMessage renders a multipart/related message with a
// quoted-printable HTML body and cid-referenced inline images
func composeMessage(opts SendSmtpOpts) []byte {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	joinUsers := func(users []User) string {
		values := make([]string, 0, len(users))
		for _, user := range users {
			values = append(values, user.String())
		}
		return strings.Join(values, ", ")
	}

	headers := map[string]string{
		"From":         opts.Sender.String(),
		"To":           joinUsers(opts.To),
		"Subject":      opts.Message.Title,
		"MIME-Version": "1.0",
		"Content-Type": "multipart/related; boundary=" + writer.Boundary(),
	}
	if len(opts.Cc) > 0 {
		headers["Cc"] = joinUsers(opts.Cc)
	}
	headerKeys := make([]string, 0, len(headers))
	for k := range headers {
		headerKeys = append(headerKeys, k)
	}
	sort.Strings(headerKeys)
	for _, k := range headerKeys {
		fmt.Fprintf(&buf, "%s: %s\r\n", k, headers[k])
	}
	fmt.Fprint(&buf, "\r\n")

	htmlPart, _ := writer.CreatePart(map[string][]string{
		"Content-Type":              {"text/html; charset=UTF-8"},
		"Content-Transfer-Encoding": {"quoted-printable"},
	})
	qp := quotedprintable.NewWriter(htmlPart)
	qp.Write(opts.Message.Body)
	qp.Close()

	for imageFilename, imageContent := range opts.Message.Images {
		imageHeader := make(textproto.MIMEHeader)
		imageHeader.Set("Content-Type", imageContent.Type)
		imageHeader.Set("Content-Transfer-Encoding", "base64")
		imageHeader.Set("Content-ID", fmt.Sprintf("<%s>", imageFilename))
		imageHeader.Set("Content-Disposition", fmt.Sprintf("inline; filename=\"%s\"", imageFilename))
		imagePart, _ := writer.CreatePart(imageHeader)
		encoded := make([]byte, base64.StdEncoding.EncodedLen(len(imageContent.Data)))
		base64.StdEncoding.Encode(encoded, imageContent.Data)
		for i := 0; i < len(encoded); i += 76 {
			end := min(i+76, len(encoded))
			imagePart.Write(encoded[i:end])
			imagePart.Write([]byte("\r\n"))
		}
	}
	writer.Close()
	return buf.Bytes()
}
