package rpc

import (
	"context"
	"fmt"

	"github.com/jhump/protoreflect/desc"
	"github.com/jhump/protoreflect/dynamic"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// Client is a thin Prover RPC client built the same dynamic-message way
// as the server: no generated stubs, just the parsed service descriptor
// plus grpc.ClientConn.Invoke.
type Client struct {
	conn   *grpc.ClientConn
	method *desc.MethodDescriptor
}

// Dial connects to a Prover service at addr.
func Dial(addr string) (*Client, error) {
	sd, err := serviceDescriptor()
	if err != nil {
		return nil, err
	}
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("dialing %s: %w", addr, err)
	}
	return &Client{conn: conn, method: sd.FindMethodByName("Prove")}, nil
}

// Close releases the underlying connection.
func (c *Client) Close() error { return c.conn.Close() }

// Prove sends scriptText to the remote Prover and returns one status
// line per proof obligation it contained.
func (c *Client) Prove(scriptText, filename string) ([]string, error) {
	req := dynamic.NewMessage(c.method.GetInputType())
	if err := req.TrySetFieldByName("script", scriptText); err != nil {
		return nil, fmt.Errorf("building ProveRequest: %w", err)
	}
	if err := req.TrySetFieldByName("filename", filename); err != nil {
		return nil, fmt.Errorf("building ProveRequest: %w", err)
	}

	resp := dynamic.NewMessage(c.method.GetOutputType())
	fullMethod := "/" + c.method.GetService().GetFullyQualifiedName() + "/" + c.method.GetName()
	if err := c.conn.Invoke(context.Background(), fullMethod, req, resp); err != nil {
		return nil, fmt.Errorf("Prove RPC failed: %w", err)
	}

	raw, err := resp.TryGetFieldByName("lines")
	if err != nil {
		return nil, fmt.Errorf("reading ProveResponse: %w", err)
	}
	items, _ := raw.([]interface{})
	lines := make([]string, 0, len(items))
	for _, it := range items {
		if s, ok := it.(string); ok {
			lines = append(lines, s)
		}
	}
	return lines, nil
}
