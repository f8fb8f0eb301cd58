package controller

import (
	"fmt"
	"net/http"
	"net/url"
	"tradedesk/internal/common"
	"tradedesk/internal/controller/models"
)

type CreateOrgV1Input struct {
	App      common.App `json:"app"`
	Name     string     `json:"name"`
	Timezone string     `json:"timezone"`
}

type CreateOrgV1Output struct {
	Data CreateOrgV1OutputData

	http.Response
}

type CreateOrgV1OutputData struct {
	Id string `json:"id"`
}

func (c Client) CreateOrgV1(input CreateOrgV1Input) (*CreateOrgV1Output, error) {
	var outputData CreateOrgV1OutputData
	outputClient, err := c.do(request{
		Method: http.MethodPost,
		Path:   "/api/v1/orgs",
		Data:   input,
		Output: &outputData,
	})
	return &CreateOrgV1Output{
		Data:     outputData,
		Response: outputClient.GetResponse(),
	}, err
}

type ListOrgsV1Input struct {
	// App when set only lists orgs of that product
	App *common.App
}

type ListOrgsV1Output struct {
	Data []models.Org

	http.Response
}

func (c Client) ListOrgsV1(input ListOrgsV1Input) (*ListOrgsV1Output, error) {
	var query url.Values
	if input.App != nil {
		query = url.Values{"app": []string{string(*input.App)}}
	}
	var outputData []models.Org
	outputClient, err := c.do(request{
		Method: http.MethodGet,
		Path:   "/api/v1/orgs",
		Query:  query,
		Output: &outputData,
	})
	return &ListOrgsV1Output{
		Data:     outputData,
		Response: outputClient.GetResponse(),
	}, err
}

type ListOrgMembersV1Input struct {
	OrgId string
}

type ListOrgMembersV1Output struct {
	Data []models.Membership

	http.Response
}

func (c Client) ListOrgMembersV1(input ListOrgMembersV1Input) (*ListOrgMembersV1Output, error) {
	var outputData []models.Membership
	outputClient, err := c.do(request{
		Method: http.MethodGet,
		Path:   fmt.Sprintf("/api/v1/orgs/%s/members", input.OrgId),
		Output: &outputData,
	})
	return &ListOrgMembersV1Output{
		Data:     outputData,
		Response: outputClient.GetResponse(),
	}, err
}

type AddOrgMemberV1Input struct {
	OrgId string `json:"-"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type AddOrgMemberV1Output struct {
	Data models.User

	http.Response
}

// AddOrgMemberV1 grants a role to the user with the given email, unknown
// emails get a placeholder user
func (c Client) AddOrgMemberV1(input AddOrgMemberV1Input) (*AddOrgMemberV1Output, error) {
	var outputData models.User
	outputClient, err := c.do(request{
		Method: http.MethodPost,
		Path:   fmt.Sprintf("/api/v1/orgs/%s/members", input.OrgId),
		Data:   input,
		Output: &outputData,
	})
	return &AddOrgMemberV1Output{
		Data:     outputData,
		Response: outputClient.GetResponse(),
	}, err
}
