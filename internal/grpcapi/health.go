// Package grpcapi exposes the standard grpc.health.v1 service so
// orchestrators can probe the game server.
package grpcapi

import (
	"log"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the health-check service name reported for the game API.
const ServiceName = "tictactoe.v1.Game"

type HealthServer struct {
	grpcServer *grpc.Server
	health     *health.Server
	logger     *log.Logger
}

func NewHealthServer(logger *log.Logger) *HealthServer {
	gs := grpc.NewServer()
	hs := health.NewServer()
	healthpb.RegisterHealthServer(gs, hs)

	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)

	return &HealthServer{grpcServer: gs, health: hs, logger: logger}
}

// Serve blocks accepting connections on lis until Stop is called.
func (s *HealthServer) Serve(lis net.Listener) error {
	s.logger.Printf("grpc health listening on %s", lis.Addr())
	return s.grpcServer.Serve(lis)
}

// Stop reports NOT_SERVING to watchers, then drains in-flight RPCs.
func (s *HealthServer) Stop() {
	s.health.Shutdown()
	s.grpcServer.GracefulStop()
}
