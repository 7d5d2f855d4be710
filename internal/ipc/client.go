package ipc

import (
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"time"
)

// Client provides RPC access to the daemon.
type Client struct {
	conn   net.Conn
	client *rpc.Client
}

// Dial connects to the IPC server at the given socket path.
func Dial(path string) (*Client, error) {
	conn, err := net.DialTimeout("unix", path, 2*time.Second)
	if err != nil {
		return nil, err
	}
	rpcClient := rpc.NewClientWithCodec(jsonrpc.NewClientCodec(conn))
	return &Client{conn: conn, client: rpcClient}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	if c.client != nil {
		_ = c.client.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// Ping checks daemon liveness.
func (c *Client) Ping() (*PingResponse, error) {
	var resp PingResponse
	if err := c.client.Call("Atelier.Ping", PingRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Status retrieves daemon runtime and store health information.
func (c *Client) Status() (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.client.Call("Atelier.Status", StatusRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Stop asks the daemon to shut down.
func (c *Client) Stop() (*StopResponse, error) {
	var resp StopResponse
	if err := c.client.Call("Atelier.Stop", StopRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// OrderCreate registers a new draft order.
func (c *Client) OrderCreate(description, priority string) (*OrderCreateResponse, error) {
	var resp OrderCreateResponse
	req := OrderCreateRequest{Description: description, Priority: priority}
	if err := c.client.Call("Atelier.OrderCreate", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// OrderList returns orders optionally filtered by statuses.
func (c *Client) OrderList(statuses []string) (*OrderListResponse, error) {
	var resp OrderListResponse
	req := OrderListRequest{Statuses: statuses}
	if err := c.client.Call("Atelier.OrderList", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// WorkerAdd registers a worker in a department.
func (c *Client) WorkerAdd(name, departmentID string) (*WorkerAddResponse, error) {
	var resp WorkerAddResponse
	req := WorkerAddRequest{Name: name, DepartmentID: departmentID}
	if err := c.client.Call("Atelier.WorkerAdd", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// WorkerSetActive toggles a worker's availability.
func (c *Client) WorkerSetActive(workerID string, active bool) (*WorkerSetActiveResponse, error) {
	var resp WorkerSetActiveResponse
	req := WorkerSetActiveRequest{WorkerID: workerID, Active: active}
	if err := c.client.Call("Atelier.WorkerSetActive", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// WorkerList returns the roster with live workloads.
func (c *Client) WorkerList() (*WorkerListResponse, error) {
	var resp WorkerListResponse
	if err := c.client.Call("Atelier.WorkerList", WorkerListRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DepartmentList returns the ordered pipeline stages.
func (c *Client) DepartmentList() (*DepartmentListResponse, error) {
	var resp DepartmentListResponse
	if err := c.client.Call("Atelier.DepartmentList", DepartmentListRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Send dispatches draft orders into the first pipeline department.
func (c *Client) Send(orderIDs []string) (*SendResponse, error) {
	var resp SendResponse
	req := SendRequest{OrderIDs: orderIDs}
	if err := c.client.Call("Atelier.Send", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Move moves an order to an arbitrary department.
func (c *Client) Move(orderID, departmentID string) (*MoveResponse, error) {
	var resp MoveResponse
	req := MoveRequest{OrderID: orderID, DepartmentID: departmentID}
	if err := c.client.Call("Atelier.Move", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Complete marks an order's work in a department as done.
func (c *Client) Complete(orderID, departmentID string, completionPercent *float64) (*CompleteResponse, error) {
	var resp CompleteResponse
	req := CompleteRequest{OrderID: orderID, DepartmentID: departmentID, CompletionPercent: completionPercent}
	if err := c.client.Call("Atelier.Complete", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Reassign changes the assignee of an in-progress entry.
func (c *Client) Reassign(orderID, departmentID, workerID string) (*ReassignResponse, error) {
	var resp ReassignResponse
	req := ReassignRequest{OrderID: orderID, DepartmentID: departmentID, WorkerID: workerID}
	if err := c.client.Call("Atelier.Reassign", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Unassign removes the assignee from an in-progress entry.
func (c *Client) Unassign(orderID, departmentID string) (*UnassignResponse, error) {
	var resp UnassignResponse
	req := UnassignRequest{OrderID: orderID, DepartmentID: departmentID}
	if err := c.client.Call("Atelier.Unassign", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SelfAssign claims a pending entry for a worker.
func (c *Client) SelfAssign(orderID, departmentID, workerID string) (*SelfAssignResponse, error) {
	var resp SelfAssignResponse
	req := SelfAssignRequest{OrderID: orderID, DepartmentID: departmentID, WorkerID: workerID}
	if err := c.client.Call("Atelier.SelfAssign", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Queue returns one department's waiting queue.
func (c *Client) Queue(departmentID string) (*QueueResponse, error) {
	var resp QueueResponse
	req := QueueRequest{DepartmentID: departmentID}
	if err := c.client.Call("Atelier.Queue", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Drain retries assignment for the front of a department queue.
func (c *Client) Drain(departmentID string) (*DrainResponse, error) {
	var resp DrainResponse
	req := DrainRequest{DepartmentID: departmentID}
	if err := c.client.Call("Atelier.Drain", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Board returns the kanban projection.
func (c *Client) Board() (*BoardResponse, error) {
	var resp BoardResponse
	if err := c.client.Call("Atelier.Board", BoardRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Timeline returns one order's department history.
func (c *Client) Timeline(orderID string) (*TimelineResponse, error) {
	var resp TimelineResponse
	req := TimelineRequest{OrderID: orderID}
	if err := c.client.Call("Atelier.Timeline", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// TestNotification triggers a notification test via the daemon.
func (c *Client) TestNotification() (*TestNotificationResponse, error) {
	var resp TestNotificationResponse
	if err := c.client.Call("Atelier.TestNotification", TestNotificationRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
