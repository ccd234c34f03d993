package metrics

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"github.com/clearbas/compliance-engine/pkg/metrics/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestCloudWatchRecorderGauge(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		var input *cloudwatch.PutMetricDataInput

		mockClient := new(mocks.CloudWatchAPI)
		mockClient.On("PutMetricData", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				input = args.Get(1).(*cloudwatch.PutMetricDataInput)
			}).Return(&cloudwatch.PutMetricDataOutput{}, nil)

		recorder := NewCloudWatchRecorder(mockClient, "ComplianceEngine")
		err := recorder.Gauge(context.Background(), GaugeRetryBacklog, 7)

		assert.NoError(t, err)
		assert.Equal(t, "ComplianceEngine", *input.Namespace)
		assert.Len(t, input.MetricData, 1)
		assert.Equal(t, GaugeRetryBacklog, *input.MetricData[0].MetricName)
		assert.Equal(t, float64(7), *input.MetricData[0].Value)
		assert.Equal(t, types.StandardUnitCount, input.MetricData[0].Unit)
		mockClient.AssertExpectations(t)
	})

	t.Run("Publish Failure", func(t *testing.T) {
		mockClient := new(mocks.CloudWatchAPI)
		mockClient.On("PutMetricData", mock.Anything, mock.Anything).
			Return(nil, errors.New("throttled"))

		recorder := NewCloudWatchRecorder(mockClient, "ComplianceEngine")
		err := recorder.Gauge(context.Background(), GaugeOfflineBacklog, 2)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), GaugeOfflineBacklog)
		mockClient.AssertExpectations(t)
	})
}
