package value

type VehicleStatus string

const (
	VehicleStatusAcquired       VehicleStatus = "Acquired"
	VehicleStatusUCMReview      VehicleStatus = "UCM REVIEW"
	VehicleStatusInRecon        VehicleStatus = "In Recon"
	VehicleStatusFrontlineReady VehicleStatus = "FRONTLINE READY"
)

func (s VehicleStatus) String() string {
	return string(s)
}
