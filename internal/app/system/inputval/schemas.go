package inputval

// UserForm is the schema for both the new-user and edit-user pages.
type UserForm struct {
	FullName string `form:"full_name" validate:"required,notblank,min=2,max=100" label:"Họ và tên"`
	Username string `form:"username" validate:"required,min=3,max=30,username" label:"Tên đăng nhập"`
	Email    string `form:"email" validate:"required,email,max=254" label:"Email"`
	Phone    string `form:"phone" validate:"required,vnphone" label:"Số điện thoại"`
	Role     string `form:"role" validate:"required,oneof=admin staff family" label:"Vai trò"`
	Status   string `form:"status" validate:"omitempty,oneof=pending active inactive suspended" label:"Trạng thái"`
	Position string `form:"position" validate:"max=100" label:"Chức vụ"`
	Notes    string `form:"notes" validate:"max=1000" label:"Ghi chú"`
	Password string `form:"password" validate:"omitempty,min=6,max=72" label:"Mật khẩu"`
}

// ValidateUser checks a UserForm. A password is required only when creating.
func ValidateUser(f UserForm, creating bool) Result {
	res := Validate(f)
	if creating && f.Password == "" {
		res.Add("password", "Mật khẩu là bắt buộc.")
	}
	return res
}

// CarePlanForm is the schema for a new care plan.
type CarePlanForm struct {
	PlanName         string   `form:"plan_name" validate:"required,notblank,min=3,max=120" label:"Tên gói"`
	Description      string   `form:"description" validate:"required,min=10,max=2000" label:"Mô tả"`
	MonthlyPrice     float64  `form:"monthly_price" validate:"gt=0" label:"Giá hàng tháng"`
	PlanType         string   `form:"plan_type" validate:"required,max=60" label:"Loại gói"`
	Category         string   `form:"category" validate:"required,oneof=main supplementary" label:"Danh mục"`
	ServicesIncluded []string `form:"services_included" validate:"min=1,max=30,uniqueci,dive,notblank,max=200" label:"Dịch vụ bao gồm"`
	StaffRatio       string   `form:"staff_ratio" validate:"max=20" label:"Tỷ lệ nhân viên"`
	DurationType     string   `form:"duration_type" validate:"required,oneof=monthly quarterly yearly" label:"Thời hạn"`
}

// MedicalRecordForm is the schema for a new medical record.
type MedicalRecordForm struct {
	ResidentID  string   `form:"resident_id" validate:"required" label:"Cư dân"`
	RecordType  string   `form:"record_type" validate:"required,oneof=checkup medication incident other" label:"Loại hồ sơ"`
	Title       string   `form:"title" validate:"required,notblank,max=200" label:"Tiêu đề"`
	Diagnosis   string   `form:"diagnosis" validate:"max=2000" label:"Chẩn đoán"`
	Treatment   string   `form:"treatment" validate:"max=2000" label:"Điều trị"`
	Medications []string `form:"medications" validate:"max=50,uniqueci,dive,max=200" label:"Thuốc"`
	Notes       string   `form:"notes" validate:"max=10000" label:"Ghi chú"`
}

// PhotoForm is the schema for the text fields of a photo upload.
type PhotoForm struct {
	ResidentID   string `form:"resident_id" validate:"required" label:"Cư dân"`
	Caption      string `form:"caption" validate:"required,notblank,max=300" label:"Chú thích"`
	ActivityType string `form:"activity_type" validate:"max=60" label:"Hoạt động"`
}

// MessageForm is the schema for sending a chat message.
type MessageForm struct {
	RecipientID string `form:"recipient_id" validate:"required" label:"Người nhận"`
	Content     string `form:"content" validate:"required,notblank,max=2000" label:"Nội dung"`
}

// FinancialReportForm is the schema for a new billing entry.
type FinancialReportForm struct {
	ResidentID   string  `form:"resident_id" validate:"required" label:"Cư dân"`
	Title        string  `form:"title" validate:"required,notblank,max=200" label:"Tiêu đề"`
	Amount       float64 `form:"amount" validate:"gt=0" label:"Số tiền"`
	MonthlyPrice float64 `form:"monthly_price" validate:"gte=0" label:"Giá hàng tháng"`
	PeriodStart  string  `form:"period_start" validate:"required,datetime=2006-01-02" label:"Từ ngày"`
	PeriodEnd    string  `form:"period_end" validate:"required,datetime=2006-01-02" label:"Đến ngày"`
	DueDate      string  `form:"due_date" validate:"required,datetime=2006-01-02" label:"Hạn thanh toán"`
	Notes        string  `form:"notes" validate:"max=2000" label:"Ghi chú"`
}

// LoginForm is the schema for the sign-in page.
type LoginForm struct {
	Username string `form:"username" validate:"required,notblank,max=100" label:"Tên đăng nhập"`
	Password string `form:"password" validate:"required,max=200" label:"Mật khẩu"`
}
