package controller

import (
	"net/http"
	"time"
	"tradedesk/internal/controller/models"
)

type CreateSessionV1Input struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type CreateSessionV1Output struct {
	Data CreateSessionV1OutputData

	http.Response
}

type CreateSessionV1OutputData struct {
	SessionId    string      `json:"sessionId"`
	SessionToken string      `json:"sessionToken"`
	ExpiresAt    time.Time   `json:"expiresAt"`
	User         models.User `json:"user"`
}

func (c Client) CreateSessionV1(input CreateSessionV1Input) (*CreateSessionV1Output, error) {
	var outputData CreateSessionV1OutputData
	outputClient, err := c.do(request{
		Method: http.MethodPost,
		Path:   "/api/v1/session",
		Data:   input,
		Output: &outputData,
	})
	return &CreateSessionV1Output{
		Data:     outputData,
		Response: outputClient.GetResponse(),
	}, err
}

type DeleteSessionV1Output struct {
	Data DeleteSessionV1OutputData

	http.Response
}

type DeleteSessionV1OutputData struct {
	// SessionId is empty when the controller failed to drop the session
	SessionId    string `json:"sessionId"`
	IsSuccessful bool   `json:"isSuccessful"`
}

func (c Client) DeleteSessionV1() (*DeleteSessionV1Output, error) {
	var outputData DeleteSessionV1OutputData
	outputClient, err := c.do(request{
		Method: http.MethodDelete,
		Path:   "/api/v1/session",
		Output: &outputData,
	})
	return &DeleteSessionV1Output{
		Data:     outputData,
		Response: outputClient.GetResponse(),
	}, err
}

type ValidateSessionV1Output struct {
	Data ValidateSessionV1OutputData

	http.Response
}

type ValidateSessionV1OutputData struct {
	SessionId string       `json:"sessionId"`
	User      models.User  `json:"user"`
	Orgs      []models.Org `json:"orgs"`
}

// ValidateSessionV1 returns the session's user with their orgs, an
// expired or logged out session returns ErrorAuthRequired
func (c Client) ValidateSessionV1() (*ValidateSessionV1Output, error) {
	var outputData ValidateSessionV1OutputData
	outputClient, err := c.do(request{
		Method: http.MethodGet,
		Path:   "/api/v1/session",
		Output: &outputData,
	})
	return &ValidateSessionV1Output{
		Data:     outputData,
		Response: outputClient.GetResponse(),
	}, err
}
