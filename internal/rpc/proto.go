// Package rpc exposes a Prover gRPC service over the driver. rumm
// never generates protoc stubs: rumm.proto is parsed in-process with
// protoparse and every request and response is built as a
// *dynamic.Message rather than a generated type.
package rpc

import (
	"fmt"

	"github.com/jhump/protoreflect/desc"
	"github.com/jhump/protoreflect/desc/protoparse"
)

// protoSource is rumm's own service definition, parsed in-memory — no
// .proto file ever touches disk.
const protoSource = `
syntax = "proto3";
package rumm;

message ProveRequest {
  string script = 1;
  string filename = 2;
}

message ProveResponse {
  repeated string lines = 1;
}

service Prover {
  rpc Prove(ProveRequest) returns (ProveResponse);
}
`

const protoFilename = "rumm.proto"

// serviceDescriptor parses protoSource once and returns the Prover
// service's descriptor, used by both Server and Client to build the
// dynamic request/response messages and the generic grpc.ServiceDesc.
func serviceDescriptor() (*desc.ServiceDescriptor, error) {
	p := protoparse.Parser{
		Accessor: protoparse.FileContentsFromMap(map[string]string{
			protoFilename: protoSource,
		}),
	}
	fds, err := p.ParseFiles(protoFilename)
	if err != nil {
		return nil, fmt.Errorf("parsing embedded rumm.proto: %w", err)
	}
	fd := fds[0]
	sd := fd.FindService("rumm.Prover")
	if sd == nil {
		return nil, fmt.Errorf("rumm.proto: service Prover not found")
	}
	return sd, nil
}
