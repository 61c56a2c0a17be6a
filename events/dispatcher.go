package events

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	cloudtasks "cloud.google.com/go/cloudtasks/apiv2"
	"cloud.google.com/go/cloudtasks/apiv2/cloudtaskspb"
	"github.com/googleapis/gax-go/v2"
)

type TaskDispatcher func(ctx context.Context, req *cloudtaskspb.CreateTaskRequest, opts ...gax.CallOption) error

func NewCloudTaskDispatcher(
	client *cloudtasks.Client,
) TaskDispatcher {
	return func(ctx context.Context, req *cloudtaskspb.CreateTaskRequest, opts ...gax.CallOption) error {
		_, err := client.CreateTask(ctx, req, opts...)
		return err
	}
}

// NewLocalTaskDispatcher delivers the task's http request right away, for
// running without a task queue.
func NewLocalTaskDispatcher(client *http.Client) TaskDispatcher {
	if client == nil {
		client = http.DefaultClient
	}

	return func(ctx context.Context, req *cloudtaskspb.CreateTaskRequest, opts ...gax.CallOption) error {
		httpreq := req.Task.GetHttpRequest()

		htreq, err := http.NewRequestWithContext(ctx, http.MethodPost, httpreq.GetUrl(), bytes.NewBuffer(httpreq.Body))
		if err != nil {
			return err
		}
		for key, value := range httpreq.GetHeaders() {
			htreq.Header.Set(key, value)
		}

		res, err := client.Do(htreq)
		if err != nil {
			return err
		}
		defer res.Body.Close()

		if res.StatusCode >= http.StatusBadRequest {
			return fmt.Errorf("task endpoint %s responded %d", httpreq.GetUrl(), res.StatusCode)
		}
		return nil
	}
}
