package approval

import (
	"fmt"
	"strings"
)

// Kind classifies the result of an approve or reject action.
type Kind int

const (
	// FullSuccess means every attempted call succeeded.
	FullSuccess Kind = iota
	// PartialSuccess means the primary call succeeded but one or more
	// dependent assignment calls failed.
	PartialSuccess
	// Failure means the primary call failed.
	Failure
	// Cancelled means the admin dismissed the reason prompt; nothing was called.
	Cancelled
)

func (k Kind) String() string {
	switch k {
	case FullSuccess:
		return "full_success"
	case PartialSuccess:
		return "partial_success"
	case Failure:
		return "failure"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Entities touched by a cascade step.
const (
	EntityUser       = "user"
	EntityResident   = "resident"
	EntityCarePlan   = "care_plan_assignment"
	EntityBed        = "bed_assignment"
	ActionApprove    = "approve"
	ActionReject     = "reject"
	ActionDeactivate = "deactivate"
)

// Step is one backend call made while handling an action, in call order.
type Step struct {
	Entity string
	ID     string
	Action string
	Err    error
}

// OK reports whether the step's call succeeded.
func (s Step) OK() bool { return s.Err == nil }

// Outcome is what an approve/reject action did, ready for display.
type Outcome struct {
	Kind    Kind
	Tab     Tab
	ID      string
	Title   string
	Detail  string
	Steps   []Step
	NextURL string // set after a successful resident approval
}

// Succeeded reports whether the primary call went through.
func (o Outcome) Succeeded() bool {
	return o.Kind == FullSuccess || o.Kind == PartialSuccess
}

// Failed returns the steps whose calls returned an error.
func (o Outcome) Failed() []Step {
	var out []Step
	for _, s := range o.Steps {
		if s.Err != nil {
			out = append(out, s)
		}
	}
	return out
}

var entityLabels = map[string]string{
	EntityUser:     "tài khoản",
	EntityResident: "cư dân",
	EntityCarePlan: "gói chăm sóc",
	EntityBed:      "phân phòng",
}

// approveResidentTitle picks the success title from which dependents existed.
func approveResidentTitle(hasCarePlan, hasBed bool) string {
	switch {
	case hasCarePlan && hasBed:
		return "Phê duyệt cư dân, gói chăm sóc và phân phòng thành công!"
	case hasCarePlan:
		return "Phê duyệt cư dân và gói chăm sóc thành công!"
	case hasBed:
		return "Phê duyệt cư dân và phân phòng thành công!"
	default:
		return "Phê duyệt cư dân thành công!"
	}
}

func approveResidentDetail(hasCarePlan, hasBed bool) string {
	switch {
	case hasCarePlan && hasBed:
		return "Cư dân, gói chăm sóc và phân phòng đã được duyệt. Tiếp theo, hãy tạo hóa đơn cho cư dân."
	case hasCarePlan:
		return "Cư dân và gói chăm sóc đã được duyệt. Cư dân chưa có phân phòng chờ duyệt."
	case hasBed:
		return "Cư dân và phân phòng đã được duyệt. Cư dân chưa có gói chăm sóc chờ duyệt."
	default:
		return "Cư dân đã được duyệt. Không có gói chăm sóc hay phân phòng chờ duyệt."
	}
}

func rejectResidentTitle(hasCarePlan, hasBed bool) string {
	switch {
	case hasCarePlan && hasBed:
		return "Đã từ chối cư dân, gói chăm sóc và phân phòng"
	case hasCarePlan:
		return "Đã từ chối cư dân và gói chăm sóc"
	case hasBed:
		return "Đã từ chối cư dân và phân phòng"
	default:
		return "Đã từ chối cư dân"
	}
}

func rejectResidentDetail(hasCarePlan, hasBed bool, reason string) string {
	var what string
	switch {
	case hasCarePlan && hasBed:
		what = "Hồ sơ cư dân cùng gói chăm sóc và phân phòng đã bị từ chối."
	case hasCarePlan:
		what = "Hồ sơ cư dân cùng gói chăm sóc đã bị từ chối."
	case hasBed:
		what = "Hồ sơ cư dân cùng phân phòng đã bị từ chối."
	default:
		what = "Hồ sơ cư dân đã bị từ chối."
	}
	if reason != "" {
		what += " Lý do: " + reason
	}
	return what
}

// partialNote describes failed dependent steps for the admin.
func partialNote(failed []Step) string {
	parts := make([]string, 0, len(failed))
	for _, s := range failed {
		parts = append(parts, fmt.Sprintf("%s (%s)", entityLabels[s.Entity], s.ID))
	}
	return "Chưa xử lý được: " + strings.Join(parts, ", ") + ". Vui lòng kiểm tra và thực hiện lại."
}
