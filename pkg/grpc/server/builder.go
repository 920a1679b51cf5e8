package server

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	health "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

const defaultProbeInterval = 15 * time.Second

type Option func(*Options)

type Options struct {
	port              int
	logger            *zap.Logger
	reflection        bool
	unaryInterceptors []grpc.UnaryServerInterceptor
	enableLogging     bool
	probeInterval     time.Duration
}

// WithPort sets the listening port. Zero picks a free port.
func WithPort(port int) Option {
	return func(o *Options) {
		o.port = port
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(o *Options) {
		o.logger = logger
	}
}

func WithReflection(enabled bool) Option {
	return func(o *Options) {
		o.reflection = enabled
	}
}

func WithUnaryInterceptors(interceptors ...grpc.UnaryServerInterceptor) Option {
	return func(o *Options) {
		o.unaryInterceptors = append(o.unaryInterceptors, interceptors...)
	}
}

func WithLogging(enabled bool) Option {
	return func(o *Options) {
		o.enableLogging = enabled
	}
}

// WithProbeInterval sets how often dependencies registered with Watch are probed.
func WithProbeInterval(d time.Duration) Option {
	return func(o *Options) {
		o.probeInterval = d
	}
}

// Probe reports whether a dependency is reachable.
type Probe func(ctx context.Context) error

// Server exposes the standard gRPC health service. The overall status tracks
// the server lifecycle; named services track the probes registered with Watch.
type Server struct {
	grpcServer    *grpc.Server
	lis           net.Listener
	logger        *zap.Logger
	healthServer  *health.Server
	probeInterval time.Duration

	stop     chan struct{}
	stopOnce sync.Once
	watchers sync.WaitGroup
}

// New creates a new gRPC server using the builder options.
func New(opts ...Option) (*Server, error) {
	options := &Options{
		port:          50051,
		logger:        zap.NewNop(),
		reflection:    false,
		probeInterval: defaultProbeInterval,
	}

	for _, opt := range opts {
		opt(options)
	}

	if options.port < 0 || options.port > 65535 {
		return nil, fmt.Errorf("invalid port %d: must be between 0 and 65535", options.port)
	}
	if options.probeInterval <= 0 {
		options.probeInterval = defaultProbeInterval
	}

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", options.port))
	if err != nil {
		return nil, fmt.Errorf("failed to listen on port %d: %w", options.port, err)
	}

	logger := options.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	serverOpts := []grpc.ServerOption{}

	var interceptors []grpc.UnaryServerInterceptor
	if options.enableLogging {
		interceptors = append(interceptors, LoggingInterceptor(logger))
	}
	interceptors = append(interceptors, options.unaryInterceptors...)

	if len(interceptors) > 0 {
		serverOpts = append(serverOpts, grpc.ChainUnaryInterceptor(interceptors...))
	}

	grpcServer := grpc.NewServer(serverOpts...)

	if options.reflection {
		reflection.Register(grpcServer)
	}

	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	return &Server{
		grpcServer:    grpcServer,
		lis:           lis,
		logger:        logger.Named("grpc-server"),
		healthServer:  healthServer,
		probeInterval: options.probeInterval,
		stop:          make(chan struct{}),
	}, nil
}

// SetServiceHealth updates the health status of a specific service.
func (s *Server) SetServiceHealth(serviceName string, status healthpb.HealthCheckResponse_ServingStatus) {
	s.healthServer.SetServingStatus(serviceName, status)
	s.logger.Debug("updated service health",
		zap.String("service", serviceName),
		zap.String("status", status.String()))
}

// Watch probes a dependency in the background, immediately and then every
// probe interval, publishing the outcome as the health of serviceName until
// Shutdown. serviceName reports UNKNOWN until the first probe completes.
func (s *Server) Watch(serviceName string, probe Probe) {
	s.SetServiceHealth(serviceName, healthpb.HealthCheckResponse_UNKNOWN)

	s.watchers.Add(1)
	go func() {
		defer s.watchers.Done()
		s.check(serviceName, probe)

		ticker := time.NewTicker(s.probeInterval)
		defer ticker.Stop()

		for {
			select {
			case <-s.stop:
				return
			case <-ticker.C:
				s.check(serviceName, probe)
			}
		}
	}()
}

func (s *Server) check(serviceName string, probe Probe) {
	ctx, cancel := context.WithTimeout(context.Background(), s.probeInterval)
	defer cancel()

	status := healthpb.HealthCheckResponse_SERVING
	if err := probe(ctx); err != nil {
		status = healthpb.HealthCheckResponse_NOT_SERVING
		s.logger.Warn("dependency probe failed",
			zap.String("service", serviceName),
			zap.Error(err))
	}
	s.SetServiceHealth(serviceName, status)
}

// Start runs the server in a goroutine and returns immediately.
func (s *Server) Start() {
	s.logger.Info("gRPC server starting", zap.String("addr", s.lis.Addr().String()))

	go func() {
		if err := s.grpcServer.Serve(s.lis); err != nil {
			s.logger.Error("gRPC server failed", zap.Error(err))
		}
	}()
}

// Shutdown stops the probes and gracefully shuts down the server with a
// timeout context.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("gRPC server shutting down")

	s.stopOnce.Do(func() { close(s.stop) })
	s.watchers.Wait()
	s.healthServer.Shutdown()

	done := make(chan struct{})

	go func() {
		s.grpcServer.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("gRPC server stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("forced shutdown due to timeout")
		s.grpcServer.Stop()
		return ctx.Err()
	}
}

// Addr returns the server's listening address.
func (s *Server) Addr() net.Addr {
	return s.lis.Addr()
}
