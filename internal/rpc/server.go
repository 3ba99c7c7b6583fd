package rpc

import (
	"context"
	"fmt"
	"net"

	"github.com/jhump/protoreflect/desc"
	"github.com/jhump/protoreflect/dynamic"
	"golang.org/x/sync/semaphore"
	"google.golang.org/grpc"

	"github.com/funvibe/rumm/internal/database"
	"github.com/funvibe/rumm/internal/driver"
	"github.com/funvibe/rumm/internal/parser"
)

// maxConcurrentProve bounds how many Prove calls run their (sequential,
// per-call) obligation loop at once — each holds its own db.Clone(), so
// this is purely a resource cap, not a correctness requirement.
const maxConcurrentProve = 8

// Server is a Prover gRPC service backed by a shared database handle.
// Each Prove call parses the submitted script body, runs every proof
// obligation it contains sequentially — only independent calls may
// overlap, each against its own Database.Clone() — and returns one
// status line per obligation.
type Server struct {
	db   database.Database
	sd   *desc.ServiceDescriptor
	srv  *grpc.Server
	sema *semaphore.Weighted
}

// NewServer builds a Server sharing db (cloned per call, never
// mutated directly).
func NewServer(db database.Database) (*Server, error) {
	sd, err := serviceDescriptor()
	if err != nil {
		return nil, err
	}
	return &Server{db: db, sd: sd, sema: semaphore.NewWeighted(maxConcurrentProve)}, nil
}

// grpcServiceDesc builds the generic grpc.ServiceDesc wrapping
// handleProve, registered against whatever *grpc.Server the caller is
// assembling (ListenAndServe for real use, tests for an in-process
// listener on an ephemeral port).
func (s *Server) grpcServiceDesc() *grpc.ServiceDesc {
	method := s.sd.FindMethodByName("Prove")
	return &grpc.ServiceDesc{
		ServiceName: s.sd.GetFullyQualifiedName(),
		HandlerType: (*any)(nil),
		Methods: []grpc.MethodDesc{
			{
				MethodName: "Prove",
				Handler: func(srv any, ctx context.Context, dec func(any) error, _ grpc.UnaryServerInterceptor) (any, error) {
					return srv.(*Server).handleProve(ctx, method, dec)
				},
			},
		},
		Metadata: protoFilename,
	}
}

// ListenAndServe starts the gRPC listener on addr and blocks serving
// requests until the listener errors or the server is stopped.
func (s *Server) ListenAndServe(addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	s.srv = grpc.NewServer()
	s.srv.RegisterService(s.grpcServiceDesc(), s)
	return s.srv.Serve(lis)
}

// Stop gracefully shuts down the server; a no-op if ListenAndServe was
// never called.
func (s *Server) Stop() {
	if s.srv != nil {
		s.srv.GracefulStop()
	}
}

func (s *Server) handleProve(ctx context.Context, method *desc.MethodDescriptor, dec func(any) error) (any, error) {
	if err := s.sema.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("waiting for a Prove slot: %w", err)
	}
	defer s.sema.Release(1)

	req := dynamic.NewMessage(method.GetInputType())
	if err := dec(req); err != nil {
		return nil, err
	}
	script, _ := req.TryGetFieldByName("script")
	filename, _ := req.TryGetFieldByName("filename")

	scriptText, _ := script.(string)
	name, _ := filename.(string)
	if name == "" {
		name = "remote.rmm"
	}

	lines, err := s.runScript(scriptText, name)
	if err != nil {
		return nil, err
	}

	resp := dynamic.NewMessage(method.GetOutputType())
	if err := resp.TrySetFieldByName("lines", toAnySlice(lines)); err != nil {
		return nil, fmt.Errorf("building ProveResponse: %w", err)
	}
	return resp, nil
}

// runScript parses scriptText as a standalone script (no transitive
// `load` resolution — there is no filesystem on the other end of the
// wire) and runs its proof obligations, returning one status line per
// obligation.
func (s *Server) runScript(scriptText, filename string) ([]string, error) {
	db := s.db.Clone()
	p := parser.New(scriptText, filename, db)
	script, err := p.ParseScript()
	if err != nil {
		return nil, fmt.Errorf("parsing submitted script: %w", err)
	}

	d := driver.New(db)
	results := d.Run(script)
	lines := make([]string, len(results))
	for i, r := range results {
		lines[i] = r.Line()
	}
	return lines, nil
}

func toAnySlice(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
