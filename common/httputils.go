package common

import (
	"fmt"
	"io/ioutil"
	"net/http"
	"strings"
)

type ErrHttpInvoke struct {
	Method string
	URL    string
	Status int

	RespBody string
	Cause    error
}

func (e *ErrHttpInvoke) Unwrap() error {
	return e.Cause
}

func (e *ErrHttpInvoke) Error() string {
	return fmt.Sprintf("http invoke failed: %s %s, status: %d, body: %s, cause: %v",
		e.Method, e.URL, e.Status, e.RespBody, e.Cause)
}

func NewErrHttpInvoke(req *http.Request, resp *http.Response, respBody string, cause error) *ErrHttpInvoke {
	e := &ErrHttpInvoke{RespBody: respBody, Cause: cause}
	if req != nil {
		e.Method = req.Method
		e.URL = req.URL.String()
	}
	if resp != nil {
		e.Status = resp.StatusCode
	}
	return e
}

func HttpStatusIsSuccess(status int) bool {
	return status >= 200 && status < 300
}

func HttpInvokeJson(method, url string, headers http.Header, reqBody string) (string, int, error) {
	req, err := http.NewRequest(method, url, strings.NewReader(reqBody))
	if err != nil {
		return "", 0, NewErrHttpInvoke(req, nil, "", err)
	}
	req.Header.Set("Content-Type", "application/json;charset=UTF-8")
	for name, values := range headers {
		req.Header.Del(name)
		for _, value := range values {
			req.Header.Add(name, value)
		}
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", 0, NewErrHttpInvoke(req, resp, "", err)
	}

	defer resp.Body.Close()
	respBodyBytes, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return "", resp.StatusCode, NewErrHttpInvoke(req, resp, "", err)
	}
	respBody := string(respBodyBytes)
	if !HttpStatusIsSuccess(resp.StatusCode) {
		return respBody, resp.StatusCode, NewErrHttpInvoke(req, resp, respBody, nil)
	}

	return respBody, resp.StatusCode, nil
}
