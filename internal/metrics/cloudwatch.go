package metrics

import (
	"context"
	"log"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

const (
	namespace                = "Melody/API"
	httpStatusServerError    = 500
	cloudwatchTimeoutSeconds = 5
)

// Client wraps CloudWatch client for custom metrics
type Client struct {
	client      *cloudwatch.Client
	enabled     bool
	environment string
}

// NewClient creates a new CloudWatch metrics client. Outside production the
// client is a no-op.
func NewClient(ctx context.Context, environment, region string) (*Client, error) {
	if environment != "production" {
		log.Printf("📊 CloudWatch Metrics: DISABLED (environment: %s)", environment)
		return &Client{
			enabled:     false,
			environment: environment,
		}, nil
	}

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		log.Printf("⚠️  Failed to load AWS config for CloudWatch: %v", err)
		return &Client{enabled: false, environment: environment}, nil
	}

	log.Printf("📊 CloudWatch Metrics: ✅ ENABLED (namespace: %s)", namespace)

	return &Client{
		client:      cloudwatch.NewFromConfig(cfg),
		enabled:     true,
		environment: environment,
	}, nil
}

// Enabled reports whether metrics are shipped to CloudWatch.
func (m *Client) Enabled() bool {
	return m != nil && m.enabled
}

// RecordAPIRequest records an API request metric
func (m *Client) RecordAPIRequest(endpoint string, statusCode int, duration time.Duration) {
	if !m.Enabled() {
		return
	}

	metricName := "APIRequests"
	if statusCode >= httpStatusServerError {
		metricName = "APIErrors"
	}

	dimensions := m.dimensions("Endpoint", endpoint)
	m.send(
		datum(metricName, 1, types.StandardUnitCount, dimensions),
		datum("APILatency", float64(duration.Milliseconds()), types.StandardUnitMilliseconds, dimensions),
	)
}

// RecordChordsProcessed records how many chords went through the engine and
// how many of them passed through unrecognized.
func (m *Client) RecordChordsProcessed(source string, chords, unrecognized int) {
	if !m.Enabled() {
		return
	}

	dimensions := m.dimensions("Source", source)
	m.send(
		datum("ChordsProcessed", float64(chords), types.StandardUnitCount, dimensions),
		datum("ChordsUnrecognized", float64(unrecognized), types.StandardUnitCount, dimensions),
	)
}

// RecordIngest records the outcome of a tab ingestion run.
func (m *Client) RecordIngest(successful, failed int) {
	if !m.Enabled() {
		return
	}

	dimensions := m.dimensions("", "")
	m.send(
		datum("TabsIngested", float64(successful), types.StandardUnitCount, dimensions),
		datum("TabsFailed", float64(failed), types.StandardUnitCount, dimensions),
	)
}

// RecordTokenUsage records LLM token usage
func (m *Client) RecordTokenUsage(model string, usage Usage) {
	if !m.Enabled() {
		return
	}

	dimensions := m.dimensions("Model", model)
	data := []types.MetricDatum{
		datum("LLMTokens/Total", float64(usage.TotalTokens), types.StandardUnitCount, dimensions),
		datum("LLMTokens/Input", float64(usage.InputTokens), types.StandardUnitCount, dimensions),
		datum("LLMTokens/Output", float64(usage.OutputTokens), types.StandardUnitCount, dimensions),
	}
	if usage.ReasoningTokens > 0 {
		data = append(data, datum("LLMTokens/Reasoning", float64(usage.ReasoningTokens), types.StandardUnitCount, dimensions))
	}
	m.send(data...)
}

func (m *Client) dimensions(name, value string) []types.Dimension {
	dims := []types.Dimension{
		{
			Name:  aws.String("Environment"),
			Value: aws.String(m.environment),
		},
	}
	if name != "" {
		dims = append(dims, types.Dimension{Name: aws.String(name), Value: aws.String(value)})
	}
	return dims
}

func datum(name string, value float64, unit types.StandardUnit, dimensions []types.Dimension) types.MetricDatum {
	return types.MetricDatum{
		MetricName: aws.String(name),
		Value:      aws.Float64(value),
		Unit:       unit,
		Timestamp:  aws.Time(time.Now()),
		Dimensions: dimensions,
	}
}

// send ships metrics in the background so request handling never waits on
// CloudWatch.
func (m *Client) send(data ...types.MetricDatum) {
	go func() {
		if err := m.putMetrics(data); err != nil {
			log.Printf("Failed to record %d CloudWatch metrics: %v", len(data), err)
		}
	}()
}

func (m *Client) putMetrics(data []types.MetricDatum) error {
	if !m.Enabled() || m.client == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), cloudwatchTimeoutSeconds*time.Second)
	defer cancel()

	_, err := m.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace:  aws.String(namespace),
		MetricData: data,
	})
	return err
}
