package testutil

// Patterns with hand-checked B2/S34 trajectories.
const (
	// Pair swaps between the two diagonals of a 2x2 grid. The cycle guard
	// halts on it at tick 3.
	Pair = "O.\n.O"

	// PairFlip is Pair after one step.
	PairFlip = ".O\nO."

	// Blinker is a period-2 oscillator on a 4x4 grid.
	Blinker = ".O.O\n....\n....\n...."

	// BlinkerFlip is Blinker after one step.
	BlinkerFlip = "..O.\n..O.\n....\n...."

	// Triad is a three-cell period-2 oscillator on a 5x5 grid.
	Triad = ".....\n.OO..\n..O..\n.....\n....."

	// TriadFlip is Triad after one step.
	TriadFlip = ".O...\n...O.\n.O...\n.....\n....."

	// Lone is a single cell that starves in one step.
	Lone = "...\n.O.\n..."

	// Empty3 is an all-dead 3x3 grid.
	Empty3 = "...\n...\n..."
)
