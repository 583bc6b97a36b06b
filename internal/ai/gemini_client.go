package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"docqa-service/internal/config"
	"docqa-service/internal/logger"
	"docqa-service/internal/telemetry"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"

	genai "github.com/google/generative-ai-go/genai"
)

var (
	// ErrUpstreamUnavailable is returned while the circuit breaker is open.
	ErrUpstreamUnavailable = errors.New("model service temporarily unavailable")
	// ErrEmptyResponse is returned when the model produced no text.
	ErrEmptyResponse = errors.New("model returned no text")
)

type GeminiClient struct {
	client      *genai.Client
	modelName   string
	temperature float32
	breaker     *gobreaker.CircuitBreaker
	rateLimiter *rate.Limiter
	metrics     *telemetry.Metrics
}

type RateLimits struct {
	RPM int // Requests per minute
}

func NewGeminiClient(ctx context.Context, cfg *config.Config, metrics *telemetry.Metrics) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAPIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	limits := getRateLimits(cfg.GeminiTier)

	return &GeminiClient{
		client:      client,
		modelName:   cfg.GeminiModel,
		temperature: float32(cfg.GeminiTemperature),
		breaker:     newBreaker("GeminiGenerate", metrics),
		// RPM limit with some buffer
		rateLimiter: rate.NewLimiter(rate.Limit(float64(limits.RPM)*0.9/60.0), max(1, limits.RPM/10)),
		metrics:     metrics,
	}, nil
}

func newBreaker(name string, metrics *telemetry.Metrics) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:         name,
		MaxRequests:  5,
		Interval:     10 * time.Second,
		Timeout:      60 * time.Second,
		ReadyToTrip:  readyToTrip,
		IsSuccessful: isSuccessful,
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Circuit breaker state change", "breaker", name, "from", from.String(), "to", to.String())
			metrics.RecordCircuitBreakerState(name, to.String())
		},
	})
}

// readyToTrip opens the breaker once at least 3 requests were seen and 60% of them failed.
func readyToTrip(counts gobreaker.Counts) bool {
	if counts.Requests < 3 {
		return false
	}
	failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
	return failureRatio >= 0.6
}

// isSuccessful keeps caller cancellations and deadlines from counting against the upstream.
func isSuccessful(err error) bool {
	return err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// withCallerCause attaches the caller's context error, which transport errors do not always wrap.
func withCallerCause(ctx context.Context, err error) error {
	ctxErr := ctx.Err()
	if ctxErr == nil || errors.Is(err, ctxErr) {
		return err
	}
	return fmt.Errorf("%w: %w", ctxErr, err)
}

func getRateLimits(tier string) RateLimits {
	switch tier {
	case "tier1":
		return RateLimits{RPM: 1000}
	case "tier2":
		return RateLimits{RPM: 2000}
	default:
		return RateLimits{RPM: 10}
	}
}

// Generate sends a fully assembled prompt to the model and returns the answer text.
func (gc *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	tracer := otel.Tracer("gemini-client")
	ctx, span := tracer.Start(ctx, "gemini.generate_content")
	defer span.End()

	span.SetAttributes(
		attribute.String("gemini.model", gc.modelName),
		attribute.Int("gemini.prompt_chars", len(prompt)),
	)

	if err := gc.rateLimiter.Wait(ctx); err != nil {
		span.SetAttributes(attribute.Bool("gemini.rate_limited", true))
		return "", err
	}

	result, err := gc.breaker.Execute(func() (interface{}, error) {
		model := gc.client.GenerativeModel(gc.modelName)
		model.SetTemperature(gc.temperature)

		resp, err := model.GenerateContent(ctx, genai.Text(prompt))
		if err != nil {
			span.SetAttributes(attribute.String("gemini.error_message", err.Error()))
			return nil, withCallerCause(ctx, err)
		}
		return resp, nil
	})
	if err != nil {
		span.SetAttributes(attribute.Bool("gemini.error", true))
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			span.SetAttributes(attribute.Bool("gemini.circuit_breaker_open", true))
			return "", ErrUpstreamUnavailable
		}
		return "", fmt.Errorf("gemini generate: %w", err)
	}

	resp := result.(*genai.GenerateContentResponse)
	if resp.UsageMetadata != nil {
		tokens := int64(resp.UsageMetadata.TotalTokenCount)
		span.SetAttributes(attribute.Int64("gemini.actual_tokens", tokens))
		gc.metrics.RecordTokensUsed(tokens, gc.modelName)
	}

	text, err := extractResponseText(resp)
	if err != nil {
		return "", err
	}
	span.SetAttributes(attribute.Bool("gemini.success", true))
	return text, nil
}

// extractResponseText concatenates the text parts of the first candidate
func extractResponseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil || resp.Candidates[0].Content == nil {
		return "", ErrEmptyResponse
	}

	var reply strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			reply.WriteString(string(txt))
		}
	}

	text := strings.TrimSpace(reply.String())
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

// Close the client
func (gc *GeminiClient) Close() error {
	if gc.client != nil {
		return gc.client.Close()
	}
	return nil
}
