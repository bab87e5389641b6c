package etshipment

import (
	"time"

	"coldchain/backend/ccmain/internal/app/domains/entity/etprimitive"
)

// Kind 运单类别，由 ID 前缀在入口处一次性判定
type Kind int

const (
	KindMaster Kind = iota
	KindRetailLeg
)

func (k Kind) String() string {
	if k == KindRetailLeg {
		return "RetailLeg"
	}
	return "Master"
}

// KindOf 以 RS 开头（大小写不敏感）的是零售子运单
func KindOf(id string) Kind {
	if etprimitive.HasRetailPrefix(id) {
		return KindRetailLeg
	}
	return KindMaster
}

// Event 追踪事件（值对象）
type Event struct {
	EventOwner      string    `json:"eventOwner"`
	EventRole       string    `json:"eventRole"`
	EventType       string    `json:"eventType"`
	EventDesc       string    `json:"eventDesc"`
	SensorCondition string    `json:"sensorCondition"`
	EventDate       time.Time `json:"eventDate"`
	NextRole        string    `json:"nextRole,omitempty"`
}

// WayBill 运单路由信息（值对象）
type WayBill struct {
	Origin             string `json:"origin"`
	OriginRole         string `json:"originRole"`
	OriginAddress      string `json:"originAddress"`
	Destination        string `json:"destination"`
	DestinationRole    string `json:"destinationRole"`
	DestinationAddress string `json:"destinationAddress"`
	Logistics          string `json:"logistics"`
}

// ClaimStatus 理赔状态
type ClaimStatus string

const (
	ClaimUnclaimed ClaimStatus = "Unclaimed"
	ClaimPending   ClaimStatus = "Pending"
)

// ClaimIDPrefix 理赔单号前缀
const ClaimIDPrefix = "CLM-"

// ClaimState 运单上的理赔状态（值对象），Unclaimed 时其余字段为空
type ClaimState struct {
	Status      ClaimStatus
	ClaimID     string
	RequestDate time.Time
}

// Unclaimed 未理赔
func Unclaimed() ClaimState {
	return ClaimState{Status: ClaimUnclaimed}
}

// PendingClaim 新发起的理赔
func PendingClaim(policyID string, at time.Time) ClaimState {
	return ClaimState{
		Status:      ClaimPending,
		ClaimID:     ClaimIDPrefix + policyID,
		RequestDate: at,
	}
}

// Active 是否存在进行中的理赔
func (c ClaimState) Active() bool {
	return c.Status != ClaimUnclaimed && c.Status != ""
}
