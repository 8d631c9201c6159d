package rundeck

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"resty.dev/v3"

	"github.com/vk/jobforge/internal/jobio"
)

// retryStatuses are the responses worth retrying: throttling and the
// transient server-side failures.
var retryStatuses = map[int]bool{
	429: true,
	500: true,
	502: true,
	503: true,
	504: true,
}

// Client implements the lifecycle Transport and Catalog against one server.
type Client struct {
	http  *resty.Client
	codec *jobio.Codec
	name  string
}

// NewClient connects an endpoint. Requests authenticate with the endpoint's
// token and retry up to three times with backoff on transient failures.
func NewClient(ep Endpoint, codec *jobio.Codec) *Client {
	hc := resty.New().
		SetBaseURL(fmt.Sprintf("%s/api/%d", ep.URL, ep.APIVersion)).
		SetHeader("X-Rundeck-Auth-Token", ep.Token).
		SetHeader("Accept", "application/json").
		SetTimeout(30 * time.Second).
		SetRetryCount(3).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(16 * time.Second).
		AddRetryConditions(func(res *resty.Response, err error) bool {
			if err != nil {
				return true
			}
			return retryStatuses[res.StatusCode()]
		})

	return &Client{http: hc, codec: codec, name: ep.Name}
}

// Name returns the server alias this client talks to.
func (c *Client) Name() string {
	return c.name
}

// Close releases the underlying HTTP resources.
func (c *Client) Close() error {
	return c.http.Close()
}

// fail turns a failed call into an error: the transport error when there is
// one, otherwise the HTTP status with a body excerpt.
func fail(action string, res *resty.Response, err error) error {
	if err != nil {
		return errors.Wrap(err, action)
	}
	return errors.Errorf("%s: server returned %s: %s", action, res.Status(), bodyExcerpt(res))
}

func bodyExcerpt(res *resty.Response) string {
	body := res.String()
	if len(body) > 200 {
		body = body[:200] + "..."
	}
	return body
}
