package events

import (
	"context"
	"time"

	"cloud.google.com/go/cloudtasks/apiv2/cloudtaskspb"
	"github.com/pdcgo/bookkeeping_service/ledger_core"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

// CloudTaskSink turns every event into an http task posted to endpoint.
type CloudTaskSink struct {
	dispatcher TaskDispatcher
	queue      string
	endpoint   string
	now        func() time.Time
}

func NewCloudTaskSink(dispatcher TaskDispatcher, queue string, endpoint string) *CloudTaskSink {
	return &CloudTaskSink{
		dispatcher: dispatcher,
		queue:      queue,
		endpoint:   endpoint,
		now:        time.Now,
	}
}

// Emit implements ledger_core.EventSink.
func (c *CloudTaskSink) Emit(ctx context.Context, name string, payload any) error {
	content, err := encodeEvent(name, payload, c.now())
	if err != nil {
		return err
	}

	reqheaders := map[string]string{
		"Content-Type":  "application/json",
		EventNameHeader: name,
	}

	httpreq := &cloudtaskspb.Task_HttpRequest{
		HttpRequest: &cloudtaskspb.HttpRequest{
			Url:        c.endpoint,
			HttpMethod: cloudtaskspb.HttpMethod_POST,
			Headers:    reqheaders,
			Body:       content,
		},
	}

	task := cloudtaskspb.CreateTaskRequest{
		Parent: c.queue,
		Task: &cloudtaskspb.Task{
			MessageType: httpreq,
		},
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.MapCarrier(task.Task.GetHttpRequest().Headers))

	return c.dispatcher(ctx, &task)
}

var _ ledger_core.EventSink = (*CloudTaskSink)(nil)
