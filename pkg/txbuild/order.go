package txbuild

import "jup-swap/pkg/types"

// OrderInstructions flattens a swap-instructions response into execution
// order: compute budget, token ledger, setup, swap, cleanup, then any others.
func OrderInstructions(resp *types.SwapInstructionsResponse) []types.Instruction {
	if resp == nil {
		return nil
	}

	out := make([]types.Instruction, 0, len(resp.ComputeBudgetInstructions)+len(resp.SetupInstructions)+len(resp.OtherInstructions)+3)
	out = append(out, resp.ComputeBudgetInstructions...)
	if resp.TokenLedgerInstruction != nil {
		out = append(out, *resp.TokenLedgerInstruction)
	}
	out = append(out, resp.SetupInstructions...)
	out = append(out, resp.SwapInstruction)
	if resp.CleanupInstruction != nil {
		out = append(out, *resp.CleanupInstruction)
	}
	out = append(out, resp.OtherInstructions...)
	return out
}
