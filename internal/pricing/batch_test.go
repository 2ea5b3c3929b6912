package pricing

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateBatch_PreservesOrderAndIsolatesFailures(t *testing.T) {
	inputs := make([]CalculationInput, 0, 50)
	for i := 0; i < 50; i++ {
		in := testInput(int64(500_000+i*10_000), 69_000, ContractPublicSubsidy, 24)
		in.Device.ID = fmt.Sprintf("device-%02d", i)
		in.Subsidy.DeviceID = in.Device.ID
		if i%10 == 7 {
			in.InstallmentMonths = 18
		}
		inputs = append(inputs, in)
	}

	results, err := CalculateBatch(context.Background(), inputs, DefaultSettings(), 4)
	require.NoError(t, err)
	require.Len(t, results, len(inputs))

	for i, r := range results {
		assert.Equal(t, inputs[i].Device.ID, r.Input.Device.ID)
		if i%10 == 7 {
			verr, ok := AsValidationError(r.Err)
			require.True(t, ok)
			assert.Equal(t, "installmentMonths", verr.Field)
			continue
		}
		require.NoError(t, r.Err)

		single, err := Calculate(inputs[i], DefaultSettings())
		require.NoError(t, err)
		assert.Equal(t, single, r.Result)
	}
}

func TestCalculateBatch_Empty(t *testing.T) {
	results, err := CalculateBatch(context.Background(), nil, DefaultSettings(), 0)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestCalculateBatch_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	inputs := []CalculationInput{testInput(500_000, 69_000, ContractPublicSubsidy, 24)}
	_, err := CalculateBatch(ctx, inputs, DefaultSettings(), 2)
	assert.ErrorIs(t, err, context.Canceled)
}
