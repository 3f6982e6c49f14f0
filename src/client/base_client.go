package client

import (
	"context"
	"net/http"

	"github.com/assetkid/gallery/src/utils/build_info"
	"github.com/assetkid/gallery/src/utils/config"
	"github.com/assetkid/gallery/src/utils/logger"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

type BaseClient struct {
	client *resty.Client
	config *config.Client
	log    *logrus.Entry
}

func newBaseClient(config *config.Client) (self *BaseClient) {
	self = new(BaseClient)
	self.config = config
	self.log = logger.NewSublogger("client")

	self.client =
		resty.New().
			SetBaseURL(config.GatewayURL).
			SetTimeout(config.Timeout).
			SetHeader("User-Agent", "gallery/cli/"+build_info.Version).
			SetHeader("Content-Type", "application/json").
			SetRetryCount(2).
			SetLogger(NewLogger()).
			AddRetryCondition(self.onRetryCondition).
			OnAfterResponse(self.onStatusToError)

	return
}

func (self *BaseClient) GetClient() *resty.Client {
	return self.client
}

func (self *BaseClient) onStatusToError(c *resty.Client, resp *resty.Response) error {
	if resp.IsSuccess() {
		return nil
	}

	out := &ResponseError{Status: resp.StatusCode(), Message: resp.Status()}
	body, ok := resp.Error().(*Error)
	if ok && body.Error != "" {
		out.Message = body.Error
	}

	self.log.WithField("status", resp.StatusCode()).
		WithField("url", resp.Request.URL).
		WithField("resp", string(resp.Body())).
		Debug("Request failed")
	return out
}

// Only rate limiting and server side failures are retried, requests that change state aren't
func (self *BaseClient) onRetryCondition(resp *resty.Response, err error) bool {
	if err != nil || resp == nil {
		return false
	}
	if resp.Request.Method != http.MethodGet {
		return false
	}
	return resp.StatusCode() == http.StatusTooManyRequests || resp.StatusCode() >= 500
}

func (self *BaseClient) request(ctx context.Context, from common.Address) *resty.Request {
	req := self.client.R().
		SetContext(ctx).
		SetError(&Error{}).
		ForceContentType("application/json")
	if from != (common.Address{}) {
		req.SetHeader("X-Caller-Address", from.Hex())
	}
	return req
}

// Sends the request and decodes the result into out
func do[Out any](req *resty.Request, method, path string, out *Out) (*Out, error) {
	resp, err := req.SetResult(out).Execute(method, path)
	if err != nil {
		return nil, err
	}

	result, ok := resp.Result().(*Out)
	if !ok {
		return nil, ErrFailedToParse
	}
	return result, nil
}
