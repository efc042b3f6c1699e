// internal/common/errors/handler_test.go
package errors

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/commands"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
)

// ==========================
// Test Helper Functions
// ==========================

// recordingGateway captures fail and throw requests together with the state
// of the context they were sent on.
type recordingGateway struct {
	pb.GatewayClient

	mu      sync.Mutex
	failed  []*pb.FailJobRequest
	thrown  []*pb.ThrowErrorRequest
	ctxErrs []error
	sendErr error
}

func (g *recordingGateway) FailJob(ctx context.Context, in *pb.FailJobRequest, _ ...grpc.CallOption) (*pb.FailJobResponse, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.failed = append(g.failed, in)
	g.ctxErrs = append(g.ctxErrs, ctx.Err())
	return &pb.FailJobResponse{}, g.sendErr
}

func (g *recordingGateway) ThrowError(ctx context.Context, in *pb.ThrowErrorRequest, _ ...grpc.CallOption) (*pb.ThrowErrorResponse, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.thrown = append(g.thrown, in)
	g.ctxErrs = append(g.ctxErrs, ctx.Err())
	return &pb.ThrowErrorResponse{}, g.sendErr
}

type gatewayJobClient struct {
	gateway pb.GatewayClient
}

func noRetry(context.Context, error) bool { return false }

func (c gatewayJobClient) NewCompleteJobCommand() commands.CompleteJobCommandStep1 {
	return commands.NewCompleteJobCommand(c.gateway, noRetry)
}

func (c gatewayJobClient) NewFailJobCommand() commands.FailJobCommandStep1 {
	return commands.NewFailJobCommand(c.gateway, noRetry)
}

func (c gatewayJobClient) NewThrowErrorCommand() commands.ThrowErrorCommandStep1 {
	return commands.NewThrowErrorCommand(c.gateway, noRetry)
}

type recordingLogger struct {
	messages []string
}

func (l *recordingLogger) Error(msg string, _ map[string]interface{}) {
	l.messages = append(l.messages, msg)
}

func expiredContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	t.Cleanup(cancel)
	<-ctx.Done()
	return ctx
}

func testJob(retries int32) entities.Job {
	return entities.Job{ActivatedJob: &pb.ActivatedJob{Key: 42, Type: "calculate-match-score", Retries: retries}}
}

// ==========================
// HandleJobError Tests
// ==========================

func TestHandleJobError_FailsAfterJobDeadline(t *testing.T) {
	gateway := &recordingGateway{}
	h := NewErrorHandler(&recordingLogger{})

	h.HandleJobError(expiredContext(t), gatewayJobClient{gateway}, testJob(3), NewQueryTimeoutError("client_profile"))

	require.Len(t, gateway.failed, 1)
	assert.Empty(t, gateway.thrown)
	assert.Equal(t, int64(42), gateway.failed[0].JobKey)
	assert.Equal(t, int32(1), gateway.failed[0].Retries)
	assert.Contains(t, gateway.failed[0].Variables, "QUERY_TIMEOUT")
	assert.NoError(t, gateway.ctxErrs[0])
}

func TestHandleJobError_ThrowsAfterJobDeadline(t *testing.T) {
	gateway := &recordingGateway{}
	h := NewErrorHandler(&recordingLogger{})

	h.HandleJobError(expiredContext(t), gatewayJobClient{gateway}, testJob(3), NewProfileValidationFailedError("age missing"))

	require.Len(t, gateway.thrown, 1)
	assert.Empty(t, gateway.failed)
	assert.Equal(t, "PROFILE_VALIDATION_FAILED", gateway.thrown[0].ErrorCode)
	assert.NoError(t, gateway.ctxErrs[0])
}

func TestHandleJobError_LogsSendFailure(t *testing.T) {
	gateway := &recordingGateway{sendErr: fmt.Errorf("gateway unavailable")}
	log := &recordingLogger{}
	h := NewErrorHandler(log)

	h.HandleJobError(context.Background(), gatewayJobClient{gateway}, testJob(3), NewInvalidInputError("bad"))

	require.Len(t, gateway.thrown, 1)
	assert.Equal(t, []string{"Job failed", "failed to send job command"}, log.messages)
}
