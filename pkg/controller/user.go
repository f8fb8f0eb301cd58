package controller

import "net/http"

type CreateUserV1Input struct {
	Email    string  `json:"email"`
	Name     *string `json:"name"`
	Password string  `json:"password"`
}

type CreateUserV1Output struct {
	Data CreateUserV1OutputData

	http.Response
}

type CreateUserV1OutputData struct {
	Id    string `json:"id"`
	Email string `json:"email"`
}

func (c Client) CreateUserV1(input CreateUserV1Input) (*CreateUserV1Output, error) {
	var outputData CreateUserV1OutputData
	outputClient, err := c.do(request{
		Method: http.MethodPost,
		Path:   "/api/v1/users",
		Data:   input,
		Output: &outputData,
	})
	return &CreateUserV1Output{
		Data:     outputData,
		Response: outputClient.GetResponse(),
	}, err
}
