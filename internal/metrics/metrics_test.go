package metrics

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/bnema/smsman-cli/internal/domain"
	"github.com/bnema/smsman-cli/internal/ports/mocks"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestInstrumentGatewayCountsOutcomes(t *testing.T) {
	gateway := mocks.NewMockGateway(t)
	m := New()
	instrumented := InstrumentGateway(gateway, m)

	gateway.EXPECT().GetBalance(mock.Anything, "tok").Return(domain.Balance{Rating: "5"}, nil).Once()
	gateway.EXPECT().GetBalance(mock.Anything, "bad").Return(domain.Balance{}, &domain.RemoteError{Op: "get-balance", Code: "wrong_token", Message: "Wrong token"}).Once()
	gateway.EXPECT().GetSMS(mock.Anything, "tok", domain.RequestID(1)).Return("", &domain.TransportError{Op: "get-sms", StatusCode: 500}).Once()

	balance, err := instrumented.GetBalance(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, "5", balance.Rating)

	_, err = instrumented.GetBalance(context.Background(), "bad")
	require.Error(t, err)

	_, err = instrumented.GetSMS(context.Background(), "tok", 1)
	require.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.gatewayRequests.WithLabelValues("get-balance", OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.gatewayRequests.WithLabelValues("get-balance", OutcomeRemoteError)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.gatewayRequests.WithLabelValues("get-sms", OutcomeTransportError)))
}

func TestInstrumentGatewayWithoutMetricsReturnsNext(t *testing.T) {
	gateway := mocks.NewMockGateway(t)
	assert.Same(t, gateway, InstrumentGateway(gateway, nil))
}

func TestObservePollAndState(t *testing.T) {
	m := New()

	m.ObservePoll(PollWaiting)
	m.ObservePoll(PollCode)
	m.ObserveState(domain.State{}, domain.State{
		Rentals: []domain.Rental{{RequestID: 1}, {RequestID: 2}},
		History: []domain.HistoryRecord{{}},
	})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.codesReceived))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.pollTicks.WithLabelValues(PollWaiting)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.activeRentals))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.historyRecords))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics

	m.ObservePoll(PollCode)
	m.ObserveGateway("get-sms", errors.New("boom"))
	m.ObserveState(domain.State{}, domain.State{})
	require.NoError(t, m.WriteTextfile(filepath.Join(t.TempDir(), "smsman.prom")))
}

func TestWriteTextfile(t *testing.T) {
	m := New()
	m.ObservePoll(PollCode)

	path := filepath.Join(t.TempDir(), "smsman.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "smsman_codes_received_total 1")
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, OutcomeOK, Outcome(nil))
	assert.Equal(t, OutcomeError, Outcome(errors.New("boom")))
}
