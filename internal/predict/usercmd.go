package predict

// Button bits carried in UserCmd.Buttons.
const (
	ButtonJump uint16 = 1 << iota
	ButtonCrouch
	ButtonFire
)

// UserCmd is the decoded, float-valued form of one input sample.
type UserCmd struct {
	Tick         uint32
	Forward      float32
	Side         float32
	Yaw          float64 // degrees
	Pitch        float64 // degrees
	Buttons      uint16
	WeaponSelect uint8
}

// MoveState is the authoritative simulator's current movement category,
// consulted by the predictor to choose a drought-filling strategy.
type MoveState int

const (
	Grounded MoveState = iota
	Airborne
	Crouchslide
	Falling
)
