package controller

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"
	"tradedesk/internal/common"
)

const defaultTimeout = 30 * time.Second

type NewClientOpts struct {
	ControllerUrl string
	BearerAuth    *NewClientBearerAuthOpts
	Id            string
	Timeout       time.Duration
}

type NewClientBearerAuthOpts struct {
	Token string
}

func NewClient(opts NewClientOpts) (*Client, error) {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	client := &Client{
		BearerAuth: opts.BearerAuth,
		HttpClient: &http.Client{Timeout: timeout},
		Id:         opts.Id,
	}

	controllerUrl, err := url.Parse(opts.ControllerUrl)
	if err != nil {
		return nil, fmt.Errorf("failed to parse provided controllerUrl[%s]: %w", opts.ControllerUrl, err)
	}
	if controllerUrl.Scheme != "http" && controllerUrl.Scheme != "https" {
		return nil, fmt.Errorf("failed to determine url scheme of controllerUrl[%s], expected http or https", opts.ControllerUrl)
	}
	if controllerUrl.Host == "" {
		return nil, fmt.Errorf("failed to determine host of controllerUrl[%s]", opts.ControllerUrl)
	}
	client.ControllerUrl = controllerUrl

	return client, nil
}

type Client struct {
	// ControllerUrl is the URL where the controller service is
	// accessible at
	ControllerUrl *url.URL
	BearerAuth    *NewClientBearerAuthOpts

	// HttpClient is the HTTP client
	HttpClient *http.Client

	// Id will be included in the user-agent for identification
	Id string
}

type request struct {
	Method string
	Path   string
	Query  url.Values

	// Data is sent as json unless Body is set
	Data any

	// Body and ContentType send a pre-encoded payload
	Body        io.Reader
	ContentType string

	// Output receives the `data` property of the controller's response,
	// it is ignored when Raw is true
	Output any
	Raw    bool
}

type clientOutput struct {
	Response http.Response
	Body     []byte
	Message  string
	Code     error
}

// GetErrorCode returns the error code sent by the controller, it is
// safe to call on a nil output
func (o *clientOutput) GetErrorCode() error {
	if o == nil || o.Code == nil {
		return ErrorUnknown
	}
	return o.Code
}

func (o *clientOutput) GetResponse() http.Response {
	if o == nil {
		return http.Response{}
	}
	return o.Response
}

func (c Client) do(req request) (*clientOutput, error) {
	controllerUrl := *c.ControllerUrl
	controllerUrl.Path = req.Path
	if req.Query != nil {
		controllerUrl.RawQuery = req.Query.Encode()
	}

	body := req.Body
	contentType := req.ContentType
	if body == nil && req.Data != nil {
		requestData, err := json.Marshal(req.Data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal input into json: %w", err)
		}
		body = bytes.NewBuffer(requestData)
		contentType = "application/json"
	}
	httpRequest, err := http.NewRequest(req.Method, controllerUrl.String(), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create http request to %s %s: %w", req.Method, req.Path, err)
	}
	if contentType != "" {
		httpRequest.Header.Set("Content-Type", contentType)
	}
	httpRequest.Header.Set("User-Agent", fmt.Sprintf("tradedesk/controller-sdk/client-%s", c.Id))
	if c.BearerAuth != nil {
		httpRequest.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.BearerAuth.Token))
	}

	httpResponse, err := c.HttpClient.Do(httpRequest)
	if err != nil {
		return nil, fmt.Errorf("failed to execute http request to %s %s: %w", req.Method, req.Path, err)
	}
	defer httpResponse.Body.Close()
	responseBody, err := io.ReadAll(httpResponse.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	output := &clientOutput{
		Response: *httpResponse,
		Body:     responseBody,
	}

	if isSuccessResponse(httpResponse) {
		if req.Raw || req.Output == nil {
			return output, nil
		}
		var response common.HttpResponse
		if err := json.Unmarshal(responseBody, &response); err != nil {
			return output, fmt.Errorf("failed to parse response from controller service: %w", err)
		}
		output.Message = response.Message
		responseData, err := json.Marshal(response.Data)
		if err != nil {
			return output, fmt.Errorf("failed to parse response data from controller service: %w", err)
		}
		if err := json.Unmarshal(responseData, req.Output); err != nil {
			return output, fmt.Errorf("failed to parse response data from controller service: %w", err)
		}
		return output, nil
	}

	var response common.HttpResponse
	if err := json.Unmarshal(responseBody, &response); err != nil {
		output.Code = ErrorUnknown
		return output, fmt.Errorf("%w: received status code[%v]: %s", ErrorUnknown, httpResponse.StatusCode, string(responseBody))
	}
	output.Message = response.Message
	output.Code = parseErrorCode(response.Data)
	return output, fmt.Errorf("%w: %s", output.Code, response.Message)
}

// upload sends fileData as the `file` field of a multipart form
func (c Client) upload(method, path, filename string, fileData io.Reader, fields map[string]string, output any) (*clientOutput, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return nil, fmt.Errorf("failed to write form field[%s]: %w", key, err)
		}
	}
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, fileData); err != nil {
		return nil, fmt.Errorf("failed to copy file[%s] into the request: %w", filename, err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalise multipart form: %w", err)
	}
	return c.do(request{
		Method:      method,
		Path:        path,
		Body:        &body,
		ContentType: writer.FormDataContentType(),
		Output:      output,
	})
}

func parseErrorCode(data any) error {
	code, ok := data.(string)
	if !ok {
		return ErrorUnknown
	}
	for _, known := range knownErrors {
		if known.Error() == code {
			return known
		}
	}
	return errors.New(code)
}
