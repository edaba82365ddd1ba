package tracing

import (
	"net"
	"strconv"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"
	jaegercfg "github.com/uber/jaeger-client-go/config"
	"github.com/uber/jaeger-lib/metrics"
	jprom "github.com/uber/jaeger-lib/metrics/prometheus"

	"signal_bot/pkg/logger"
)

// Config points the reporter at a jaeger agent.
type Config struct {
	Service string
	Host    string
	Port    int
}

// InitTracer installs a jaeger tracer as the global opentracing tracer. Tracer
// self-metrics go to the default prometheus registry. The returned func
// flushes and closes it.
func InitTracer(conf Config) (opentracing.Tracer, func(), error) {
	if conf.Service == "" {
		return nil, nil, errors.New("tracing: empty service name")
	}

	cfg := jaegercfg.Configuration{
		ServiceName: conf.Service,
		Sampler: &jaegercfg.SamplerConfig{
			Type:  "const",
			Param: 1,
		},
		Reporter: &jaegercfg.ReporterConfig{
			LocalAgentHostPort: net.JoinHostPort(conf.Host, strconv.Itoa(conf.Port)),
		},
	}

	factory := jprom.New().Namespace(metrics.NSOptions{Name: "signal_bot_tracer"})
	tracer, closer, err := cfg.NewTracer(jaegercfg.Metrics(factory))
	if err != nil {
		return nil, nil, errors.Wrap(err, "tracing: new tracer")
	}

	opentracing.SetGlobalTracer(tracer)
	return tracer, func() {
		if err := closer.Close(); err != nil {
			logger.Error("[TRACE] close tracer: %v", err)
		}
	}, nil
}
