// Package ipc exposes the engine over JSON-RPC on a Unix domain socket.
// The daemon registers one service; the CLI client dials it per invocation.
package ipc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"os"
	"sync"

	"log/slog"

	"atelier/internal/api"
	"atelier/internal/daemon"
	"atelier/internal/logging"
	"atelier/internal/services"
	"atelier/internal/store"
	"atelier/internal/workflow"
)

// Server exposes the workflow engine via JSON-RPC over a Unix domain socket.
type Server struct {
	path      string
	daemon    *daemon.Daemon
	logger    *slog.Logger
	listener  net.Listener
	rpcServer *rpc.Server

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// requestStop is signalled when a client asks the daemon to shut down.
	requestStop func()
}

// NewServer configures the IPC server at the given socket path. stop is
// invoked when a client issues a Stop request.
func NewServer(ctx context.Context, path string, d *daemon.Daemon, logger *slog.Logger, stop func()) (*Server, error) {
	if d == nil {
		return nil, errors.New("ipc server requires daemon")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	if err := os.RemoveAll(path); err != nil {
		return nil, fmt.Errorf("remove existing socket: %w", err)
	}

	listener, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen on socket: %w", err)
	}

	rpcServer := rpc.NewServer()
	srv := &service{daemon: d, logger: logger, ctx: ctx, requestStop: stop}
	if err := rpcServer.RegisterName("Atelier", srv); err != nil {
		listener.Close()
		return nil, fmt.Errorf("register rpc service: %w", err)
	}

	serverCtx, cancel := context.WithCancel(ctx)
	return &Server{
		path:        path,
		daemon:      d,
		logger:      logger,
		listener:    listener,
		rpcServer:   rpcServer,
		ctx:         serverCtx,
		cancel:      cancel,
		requestStop: stop,
	}, nil
}

// SocketPath returns the bound socket path.
func (s *Server) SocketPath() string {
	return s.path
}

// Serve starts accepting RPC connections until the context is canceled.
func (s *Server) Serve() {
	s.logger.Debug("IPC server listening", logging.String("socket", s.path))
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			conn, err := s.listener.Accept()
			if err != nil {
				select {
				case <-s.ctx.Done():
					return
				default:
				}
				s.logger.Warn("accept failed", logging.Error(err))
				continue
			}
			s.wg.Add(1)
			go func(c net.Conn) {
				defer s.wg.Done()
				s.rpcServer.ServeCodec(jsonrpc.NewServerCodec(c))
			}(conn)
		}
	}()
}

// Close stops the server and removes the socket file.
func (s *Server) Close() {
	s.cancel()
	if s.listener != nil {
		_ = s.listener.Close()
	}
	s.wg.Wait()
	if err := os.RemoveAll(s.path); err != nil {
		s.logger.Warn("failed to remove socket",
			logging.String("socket", s.path),
			logging.Error(err))
	}
}

type service struct {
	daemon      *daemon.Daemon
	logger      *slog.Logger
	ctx         context.Context
	requestStop func()
}

func (s *service) log() *slog.Logger {
	if s.logger == nil {
		return logging.NewNop()
	}
	return s.logger.With(logging.String(logging.FieldComponent, "ipc"))
}

func (s *service) Ping(_ PingRequest, resp *PingResponse) error {
	resp.Alive = true
	resp.PID = os.Getpid()
	return nil
}

func (s *service) Status(_ StatusRequest, resp *StatusResponse) error {
	status := s.daemon.Status(s.ctx)
	resp.Running = status.Running
	resp.PID = status.PID
	resp.DatabasePath = status.DatabasePath
	resp.LockPath = status.LockFilePath
	resp.Departments = status.Departments
	resp.Health = api.FromHealth(status.Health)
	resp.HealthError = status.HealthErr
	return nil
}

func (s *service) Stop(_ StopRequest, resp *StopResponse) error {
	s.log().Info("daemon stop requested via IPC")
	if s.requestStop != nil {
		s.requestStop()
	}
	resp.Stopped = true
	return nil
}

func (s *service) OrderCreate(req OrderCreateRequest, resp *OrderCreateResponse) error {
	priority, ok := store.ParsePriority(req.Priority)
	if !ok {
		resp.Error = api.FailureFromError(services.Wrap(services.ErrValidation, "ipc", "order create", fmt.Sprintf("unknown priority %q", req.Priority), nil))
		return nil
	}
	order, err := s.daemon.Store().CreateOrder(s.ctx, req.Description, priority)
	if err != nil {
		resp.Error = api.FailureFromError(err)
		return nil
	}
	resp.Order = api.FromOrder(order)
	return nil
}

func (s *service) OrderList(req OrderListRequest, resp *OrderListResponse) error {
	statuses := make([]store.OrderStatus, 0, len(req.Statuses))
	for _, raw := range req.Statuses {
		status, ok := store.ParseOrderStatus(raw)
		if !ok {
			resp.Error = api.FailureFromError(services.Wrap(services.ErrValidation, "ipc", "order list", fmt.Sprintf("unknown status %q", raw), nil))
			return nil
		}
		statuses = append(statuses, status)
	}
	orders, err := s.daemon.Store().ListOrders(s.ctx, statuses...)
	if err != nil {
		resp.Error = api.FailureFromError(err)
		return nil
	}
	resp.Orders = api.FromOrders(orders)
	return nil
}

func (s *service) WorkerAdd(req WorkerAddRequest, resp *WorkerAddResponse) error {
	if !s.daemon.Catalog().Exists(req.DepartmentID) {
		resp.Error = api.FailureFromError(services.Wrap(services.ErrValidation, "ipc", "worker add", fmt.Sprintf("unknown department %q", req.DepartmentID), nil))
		return nil
	}
	worker, err := s.daemon.Store().AddWorker(s.ctx, req.Name, req.DepartmentID)
	if err != nil {
		resp.Error = api.FailureFromError(err)
		return nil
	}
	resp.Worker = api.FromWorker(worker)
	return nil
}

func (s *service) WorkerSetActive(req WorkerSetActiveRequest, resp *WorkerSetActiveResponse) error {
	worker, err := s.daemon.Store().GetWorkerByRef(s.ctx, req.WorkerID)
	if err != nil {
		resp.Error = api.FailureFromError(err)
		return nil
	}
	if worker == nil {
		resp.Error = api.FailureFromError(services.Wrap(services.ErrNotFound, "ipc", "worker set active", fmt.Sprintf("worker %q does not exist", req.WorkerID), nil))
		return nil
	}
	if err := s.daemon.Store().SetWorkerActive(s.ctx, worker.ID, req.Active); err != nil {
		resp.Error = api.FailureFromError(err)
		return nil
	}
	resp.Updated = true
	return nil
}

func (s *service) WorkerList(_ WorkerListRequest, resp *WorkerListResponse) error {
	workers, err := s.daemon.Store().ListWorkers(s.ctx)
	if err != nil {
		resp.Error = api.FailureFromError(err)
		return nil
	}
	resp.Workers = api.FromWorkers(workers)
	return nil
}

func (s *service) DepartmentList(_ DepartmentListRequest, resp *DepartmentListResponse) error {
	resp.Departments = api.FromDepartments(s.daemon.Catalog().Departments())
	return nil
}

func (s *service) Send(req SendRequest, resp *SendResponse) error {
	results := s.daemon.Orchestrator().SendToFactory(s.ctx, req.OrderIDs)
	resp.Results = api.FromDispatchResults(results)
	return nil
}

func (s *service) Move(req MoveRequest, resp *MoveResponse) error {
	result, err := s.daemon.Orchestrator().MoveToDepartment(s.ctx, req.OrderID, req.DepartmentID)
	if err != nil {
		resp.Error = api.FailureFromError(err)
		return nil
	}
	resp.Result = api.FromMoveResult(result)
	return nil
}

func (s *service) Complete(req CompleteRequest, resp *CompleteResponse) error {
	var metrics *workflow.Metrics
	if req.CompletionPercent != nil {
		metrics = &workflow.Metrics{CompletionPercent: req.CompletionPercent}
	}
	result, err := s.daemon.Orchestrator().CompleteDepartment(s.ctx, req.OrderID, req.DepartmentID, metrics)
	if err != nil {
		resp.Error = api.FailureFromError(err)
		return nil
	}
	resp.Result = api.FromCompleteResult(result)
	return nil
}

func (s *service) Reassign(req ReassignRequest, resp *ReassignResponse) error {
	result, err := s.daemon.Orchestrator().ReassignDepartment(s.ctx, req.OrderID, req.DepartmentID, req.WorkerID)
	if err != nil {
		resp.Error = api.FailureFromError(err)
		return nil
	}
	resp.Result = api.FromReassignResult(result)
	return nil
}

func (s *service) Unassign(req UnassignRequest, resp *UnassignResponse) error {
	result, err := s.daemon.Orchestrator().UnassignWorker(s.ctx, req.OrderID, req.DepartmentID)
	if err != nil {
		resp.Error = api.FailureFromError(err)
		return nil
	}
	resp.Result = api.FromUnassignResult(result)
	return nil
}

func (s *service) SelfAssign(req SelfAssignRequest, resp *SelfAssignResponse) error {
	result, err := s.daemon.Orchestrator().SelfAssign(s.ctx, req.OrderID, req.DepartmentID, req.WorkerID)
	if err != nil {
		resp.Error = api.FailureFromError(err)
		return nil
	}
	resp.Result = api.SelfAssignOutcome{Assigned: result.Assigned}
	return nil
}

func (s *service) Queue(req QueueRequest, resp *QueueResponse) error {
	snapshot, err := s.daemon.Orchestrator().DepartmentQueue(s.ctx, req.DepartmentID)
	if err != nil {
		resp.Error = api.FailureFromError(err)
		return nil
	}
	resp.Queue = api.FromQueueSnapshot(snapshot)
	return nil
}

func (s *service) Drain(req DrainRequest, resp *DrainResponse) error {
	result, err := s.daemon.Orchestrator().DrainDepartment(s.ctx, req.DepartmentID)
	if err != nil {
		resp.Error = api.FailureFromError(err)
		return nil
	}
	if result == nil {
		return nil
	}
	resp.Drained = true
	resp.Result = &api.DrainOutcome{
		OrderID:    result.OrderRef,
		Assignment: api.FromAssignment(result.Assignment),
	}
	return nil
}

func (s *service) Board(_ BoardRequest, resp *BoardResponse) error {
	view, err := s.daemon.Projector().Board(s.ctx)
	if err != nil {
		resp.Error = api.FailureFromError(err)
		return nil
	}
	resp.Board = api.FromBoard(view)
	return nil
}

func (s *service) Timeline(req TimelineRequest, resp *TimelineResponse) error {
	view, err := s.daemon.Projector().Timeline(s.ctx, req.OrderID)
	if err != nil {
		resp.Error = api.FailureFromError(err)
		return nil
	}
	resp.Timeline = api.FromTimeline(view)
	return nil
}

func (s *service) TestNotification(_ TestNotificationRequest, resp *TestNotificationResponse) error {
	if err := s.daemon.Notifier().TestNotification(s.ctx); err != nil {
		resp.Sent = false
		resp.Message = err.Error()
		return nil
	}
	resp.Sent = true
	resp.Message = "test notification sent"
	return nil
}
