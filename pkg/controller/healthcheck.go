package controller

import "net/http"

type HealthcheckPingOutput struct {
	Data HealthcheckPingOutputData

	http.Response
}

type HealthcheckPingOutputData struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
	Status   string   `json:"status"`
	Time     string   `json:"time"`
}

func (c Client) HealthcheckPing() (*HealthcheckPingOutput, error) {
	var outputData HealthcheckPingOutputData
	outputClient, err := c.do(request{
		Method: http.MethodGet,
		Path:   "/healthz",
		Output: &outputData,
	})
	return &HealthcheckPingOutput{
		Data:     outputData,
		Response: outputClient.GetResponse(),
	}, err
}
