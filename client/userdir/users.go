package userdir

import (
	"caseflow/bizerror"
	"caseflow/common"
	"caseflow/session"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
)

// User as known by the external user directory.
type User struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	DisplayName string   `json:"displayName"`
	Roles       []string `json:"roles"`
}

var (
	GetUserOptionalFunc = GetUserOptional
	AuthenticateFunc    = Authenticate
)

func directoryBaseURL() string {
	url := os.Getenv("USER_DIRECTORY_URL")
	if url == "" {
		url = "http://localhost:8070"
	}
	return url
}

// GetUserOptional resolves a user id against the directory. An unknown id is
// (nil, nil); any transport or non-success condition is an error the caller
// must not swallow.
func GetUserOptional(userID string, s *session.Session) (*User, error) {
	url := fmt.Sprintf("%s/v1/users/%s", directoryBaseURL(), userID)
	respBody, status, err := common.HttpInvokeJson(http.MethodGet, url, nil, "")
	if status == http.StatusNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	user := User{}
	if err := json.Unmarshal([]byte(respBody), &user); err != nil {
		return nil, err
	}
	return &user, nil
}

type verificationRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

func Authenticate(name, password string) (*User, error) {
	reqBytes, err := json.Marshal(&verificationRequest{Name: name, Password: password})
	if err != nil {
		return nil, err
	}
	url := directoryBaseURL() + "/v1/verifications"
	respBody, status, err := common.HttpInvokeJson(http.MethodPost, url, nil, string(reqBytes))
	if status == http.StatusUnauthorized || status == http.StatusNotFound {
		return nil, bizerror.ErrUnauthenticated
	}
	if err != nil {
		return nil, err
	}

	user := User{}
	if err := json.Unmarshal([]byte(respBody), &user); err != nil {
		return nil, err
	}
	return &user, nil
}
