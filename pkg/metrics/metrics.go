// Package metrics publishes operational gauges to CloudWatch.
package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

// Gauge names published by the payment scheduler.
const (
	GaugeRetryBacklog   = "BasPaymentRetryBacklog"
	GaugeOfflineBacklog = "OfflineSubmissionBacklog"
)

// Recorder records point-in-time gauge values.
type Recorder interface {
	Gauge(ctx context.Context, name string, value float64) error
}

// CloudWatchAPI is the slice of the CloudWatch client the recorder uses.
type CloudWatchAPI interface {
	PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

// CloudWatchRecorder publishes gauges under a single namespace.
type CloudWatchRecorder struct {
	Client    CloudWatchAPI
	Namespace string
}

var _ Recorder = (*CloudWatchRecorder)(nil)

// NewCloudWatchRecorder creates a new CloudWatchRecorder.
func NewCloudWatchRecorder(client CloudWatchAPI, namespace string) *CloudWatchRecorder {
	return &CloudWatchRecorder{Client: client, Namespace: namespace}
}

// Gauge publishes a single gauge datum.
func (r *CloudWatchRecorder) Gauge(ctx context.Context, name string, value float64) error {
	input := &cloudwatch.PutMetricDataInput{
		Namespace: aws.String(r.Namespace),
		MetricData: []types.MetricDatum{
			{
				MetricName: aws.String(name),
				Value:      aws.Float64(value),
				Unit:       types.StandardUnitCount,
				Timestamp:  aws.Time(time.Now().UTC()),
			},
		},
	}
	if _, err := r.Client.PutMetricData(ctx, input); err != nil {
		return fmt.Errorf("failed to publish gauge %s: %w", name, err)
	}
	return nil
}

// Noop discards every gauge. Used in tests and local runs without AWS
// credentials.
type Noop struct{}

var _ Recorder = Noop{}

func (Noop) Gauge(ctx context.Context, name string, value float64) error { return nil }
