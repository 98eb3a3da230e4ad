package testutils

// Component types shared by tests across packages.

type Position struct {
	X, Y float64
}

type Velocity struct {
	DX, DY float64
}

type Health struct {
	HP  int `json:"hp"`
	Max int `json:"max"`
}

type Sprite struct {
	Path    string
	Layer   int
	Visible bool
}
