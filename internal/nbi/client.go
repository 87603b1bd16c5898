package nbi

import (
	"context"

	"github.com/signalsfoundry/impact-simulator/internal/nbi/types"
	"github.com/signalsfoundry/impact-simulator/model"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// Client is a typed ImpactService client. Requests and responses are
// encoded to and from google.protobuf.Struct on the wire.
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient wraps an established connection.
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) invoke(ctx context.Context, method string, req, resp any, opts ...grpc.CallOption) error {
	in, err := types.ToStruct(req)
	if err != nil {
		return err
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return err
	}
	return types.FromStruct(out, resp)
}

// Simulate launches a simulation and returns its outcome and session id.
func (c *Client) Simulate(ctx context.Context, req types.SimulateRequest, opts ...grpc.CallOption) (*types.SimulateResponse, error) {
	var resp types.SimulateResponse
	if err := c.invoke(ctx, SimulateFullMethod, req, &resp, opts...); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SampleAt samples a stored session trajectory.
func (c *Client) SampleAt(ctx context.Context, req types.SampleRequest, opts ...grpc.CallOption) (*types.SampleResponse, error) {
	var resp types.SampleResponse
	if err := c.invoke(ctx, SampleAtFullMethod, req, &resp, opts...); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetSession fetches a stored session without its trajectories.
func (c *Client) GetSession(ctx context.Context, id string, opts ...grpc.CallOption) (*types.SessionResponse, error) {
	var resp types.SessionResponse
	if err := c.invoke(ctx, GetSessionFullMethod, types.SessionRequest{SessionID: id}, &resp, opts...); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeleteSession drops a stored session.
func (c *Client) DeleteSession(ctx context.Context, id string, opts ...grpc.CallOption) error {
	var resp types.DeleteSessionResponse
	return c.invoke(ctx, DeleteSessionFullMethod, types.SessionRequest{SessionID: id}, &resp, opts...)
}

// ListPresets lists catalog presets.
func (c *Client) ListPresets(ctx context.Context, hazardousOnly bool, opts ...grpc.CallOption) ([]model.AsteroidPreset, error) {
	var resp types.ListPresetsResponse
	if err := c.invoke(ctx, ListPresetsFullMethod, types.ListPresetsRequest{HazardousOnly: hazardousOnly}, &resp, opts...); err != nil {
		return nil, err
	}
	return resp.Presets, nil
}

// GetPreset fetches one preset by id.
func (c *Client) GetPreset(ctx context.Context, id string, opts ...grpc.CallOption) (*model.AsteroidPreset, error) {
	var resp model.AsteroidPreset
	if err := c.invoke(ctx, GetPresetFullMethod, types.PresetRequest{PresetID: id}, &resp, opts...); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListMaterials lists material profiles.
func (c *Client) ListMaterials(ctx context.Context, opts ...grpc.CallOption) ([]model.MaterialProfile, error) {
	var resp types.ListMaterialsResponse
	if err := c.invoke(ctx, ListMaterialsFullMethod, types.ListMaterialsRequest{}, &resp, opts...); err != nil {
		return nil, err
	}
	return resp.Materials, nil
}

// ComputeEnergy evaluates the consequence formulas without a descent.
func (c *Client) ComputeEnergy(ctx context.Context, req types.EnergyRequest, opts ...grpc.CallOption) (*types.EnergyResponse, error) {
	var resp types.EnergyResponse
	if err := c.invoke(ctx, ComputeEnergyFullMethod, req, &resp, opts...); err != nil {
		return nil, err
	}
	return &resp, nil
}
