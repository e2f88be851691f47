package telemetry

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.scnd.dev/open/treewatch/package/span"
)

const (
	MeterName  = "treewatch-meter"
	TracerName = "treewatch-tracer"
)

type Config struct {
	Url          *string `yaml:"url"`
	Organization *string `yaml:"organization"`
	Name         *string `yaml:"name"`
	Version      *string `yaml:"-"`
}

type Telemetry struct {
	Config     *Config
	Meter      metric.Meter
	Tracer     trace.Tracer
	Instrument *Instrument
	shutdowns  []func(context.Context) error
}

// New installs OTLP exporters when an endpoint is configured and falls back to
// the global no-op providers otherwise.
func New(config *Config) (_ *Telemetry, err error) {
	if config == nil {
		config = new(Config)
	}

	// * construct telemetry
	telemetry := &Telemetry{
		Config:     config,
		Meter:      nil,
		Tracer:     nil,
		Instrument: nil,
		shutdowns:  nil,
	}

	if config.Url != nil && *config.Url != "" {
		// * construct resource
		res, err := resource.New(context.Background(), resource.WithAttributes(telemetry.Attributes()...))
		if err != nil {
			return nil, span.NewError(nil, "unable to initialize resource", err)
		}

		// * construct meter
		telemetry.Meter, err = NewMeter(telemetry, res)
		if err != nil {
			return nil, err
		}

		// * construct tracer
		telemetry.Tracer, err = NewTracer(telemetry, res)
		if err != nil {
			return nil, err
		}
	} else {
		telemetry.Meter = otel.Meter(MeterName)
		telemetry.Tracer = otel.Tracer(TracerName)
	}

	// * construct instrument
	telemetry.Instrument, err = NewInstrument(telemetry.Meter)
	if err != nil {
		return nil, span.NewError(nil, "unable to initialize instrument", err)
	}

	return telemetry, nil
}

func (r *Telemetry) Attributes() []attribute.KeyValue {
	attributes := make([]attribute.KeyValue, 0)
	name := "treewatch"
	if r.Config.Name != nil && *r.Config.Name != "" {
		name = *r.Config.Name
	}
	attributes = append(attributes, attribute.String("service.name", name))
	if r.Config.Version != nil {
		attributes = append(attributes, attribute.String("service.version", *r.Config.Version))
	}
	return attributes
}

func (r *Telemetry) Headers() map[string]string {
	headers := make(map[string]string)
	if r.Config.Organization != nil && *r.Config.Organization != "" {
		headers["X-Scope-OrgID"] = *r.Config.Organization
	}
	return headers
}

func NewMeter(telemetry *Telemetry, res *resource.Resource) (metric.Meter, error) {
	// * construct exporter
	exporter, err := otlpmetricgrpc.New(
		context.Background(),
		otlpmetricgrpc.WithEndpoint(*telemetry.Config.Url),
		otlpmetricgrpc.WithHeaders(telemetry.Headers()),
		otlpmetricgrpc.WithInsecure(),
	)
	if err != nil {
		return nil, span.NewError(nil, "unable to initialize metric exporter", err)
	}

	// * construct provider
	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(
			exporter,
			sdkmetric.WithInterval(time.Minute),
		)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(provider)
	telemetry.shutdowns = append(telemetry.shutdowns, provider.Shutdown)

	return otel.Meter(MeterName), nil
}

func NewTracer(telemetry *Telemetry, res *resource.Resource) (trace.Tracer, error) {
	// * construct exporter
	exporter, err := otlptracegrpc.New(
		context.Background(),
		otlptracegrpc.WithEndpoint(*telemetry.Config.Url),
		otlptracegrpc.WithHeaders(telemetry.Headers()),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, span.NewError(nil, "unable to initialize trace exporter", err)
	}

	// * construct provider
	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	telemetry.shutdowns = append(telemetry.shutdowns, provider.Shutdown)

	return otel.Tracer(TracerName), nil
}

// Shutdown flushes and stops the exporters installed by New.
func (r *Telemetry) Shutdown(ctx context.Context) error {
	if r == nil {
		return nil
	}
	var errs []error
	for _, shutdown := range r.shutdowns {
		if err := shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	r.shutdowns = nil
	return errors.Join(errs...)
}
