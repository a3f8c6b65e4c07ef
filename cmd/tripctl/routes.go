package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// doRequest issues one API call with the owner identity header. The body of
// non-2xx responses is returned verbatim for the operator to read.
func doRequest(method, rawURL, owner string, payload interface{}) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, rawURL, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-User-Id", owner)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return http.DefaultClient.Do(req)
}

func copyOrError(resp *http.Response, out io.Writer) error {
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("http %d: %s", resp.StatusCode, string(data))
	}
	if out == nil {
		return nil
	}
	_, err := io.Copy(out, resp.Body)
	return err
}

func runList(apiURL, owner, status string, out io.Writer) error {
	u := apiURL + "/api/routes"
	if status != "" {
		u += "?status=" + url.QueryEscape(status)
	}
	resp, err := doRequest(http.MethodGet, u, owner, nil)
	if err != nil {
		return err
	}
	return copyOrError(resp, out)
}

func runShow(apiURL, owner, routeID string, out io.Writer) error {
	resp, err := doRequest(http.MethodGet, apiURL+"/api/routes/"+url.PathEscape(routeID), owner, nil)
	if err != nil {
		return err
	}
	return copyOrError(resp, out)
}

func runTransition(apiURL, owner, routeID, status, title string, out io.Writer) error {
	payload := map[string]interface{}{"status": status}
	if title != "" {
		payload["title"] = title
	}
	resp, err := doRequest(http.MethodPatch,
		apiURL+"/api/routes/"+url.PathEscape(routeID)+"/status", owner, payload)
	if err != nil {
		return err
	}
	return copyOrError(resp, out)
}

func runDelete(apiURL, owner, routeID string) error {
	resp, err := doRequest(http.MethodDelete, apiURL+"/api/routes/"+url.PathEscape(routeID), owner, nil)
	if err != nil {
		return err
	}
	return copyOrError(resp, nil)
}

func runCalendar(apiURL, owner, from, to string, out io.Writer) error {
	q := url.Values{"from": {from}, "to": {to}}
	resp, err := doRequest(http.MethodGet, apiURL+"/api/routes/main/calendar?"+q.Encode(), owner, nil)
	if err != nil {
		return err
	}
	return copyOrError(resp, out)
}
