package domain

// The report record types below are immutable snapshots produced by the
// report gateway, one per logical event. Dates are ISO "YYYY-MM-DD" strings
// throughout; filtering and sorting key off them uniformly.

// AttendanceRecord is one doctor's presence for one date. Raw check-in and
// check-out events are merged per (doctor, date); shift is informational
// only and multiple shift labels are joined with " + ".
type AttendanceRecord struct {
	ID         string `json:"id"`
	DoctorID   string `json:"doctor_id"`
	DoctorName string `json:"doctor_name"`
	Date       string `json:"date"`
	Shift      string `json:"shift"`
	LoginTime  string `json:"login_time"`
	LogoutTime string `json:"logout_time"`
}

// SalaryRecord is one employee's pay for one (month, year) period.
type SalaryRecord struct {
	ID               string  `json:"id"`
	EmployeeID       string  `json:"employee_id"`
	EmployeeName     string  `json:"employee_name"`
	Month            int     `json:"month"`
	Year             int     `json:"year"`
	Period           string  `json:"period"`
	Date             string  `json:"date"`
	BaseSalary       float64 `json:"base_salary"`
	Bonus            float64 `json:"bonus"`
	HolidayAllowance float64 `json:"holiday_allowance"`
	TotalSalary      float64 `json:"total_salary"`
}

// DoctorFeeRecord is the derived fee owed to one doctor for one date.
// There is at most one record per normalized (doctor, date) pair; shift is
// display-only. TotalFee is max(TreatmentFee, SittingFee).
type DoctorFeeRecord struct {
	Doctor         string  `json:"doctor"`
	Date           string  `json:"date"`
	Shift          string  `json:"shift"`
	TreatmentFee   float64 `json:"treatment_fee"`
	SittingFee     float64 `json:"sitting_fee"`
	TotalFee       float64 `json:"total_fee"`
	FinalFee       float64 `json:"final_fee"`
	TreatmentCount int     `json:"treatment_count"`
	HasTreatments  bool    `json:"has_treatments"`
}

// ExpenseRecord is one miscellaneous clinic expense.
type ExpenseRecord struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Date        string  `json:"date"`
	Amount      float64 `json:"amount"`
}

// TreatmentRecord is one performed treatment. Nominal is the resolved
// billed amount; Fee is the doctor's cut used by the doctor-fee pipeline.
type TreatmentRecord struct {
	ID            string  `json:"id"`
	PatientName   string  `json:"patient_name"`
	DoctorName    string  `json:"doctor_name"`
	Date          string  `json:"date"`
	Shift         string  `json:"shift"`
	TreatmentName string  `json:"treatment_name"`
	Nominal       float64 `json:"nominal"`
	Fee           float64 `json:"fee"`
}

// SalesRecord is one flattened sale line item. A raw sale bundling several
// items yields one record per item, with the sale-level discount prorated
// across them.
type SalesRecord struct {
	ID             string  `json:"id"`
	SaleID         string  `json:"sale_id"`
	Date           string  `json:"date"`
	ProductName    string  `json:"product_name"`
	Category       string  `json:"category"`
	Quantity       float64 `json:"quantity"`
	UnitPrice      float64 `json:"unit_price"`
	Subtotal       float64 `json:"subtotal"`
	DiscountAmount float64 `json:"discount_amount"`
	TotalAmount    float64 `json:"total_amount"`
}

// FieldTripDoctor is a doctor assigned to a field trip, with their fee.
type FieldTripDoctor struct {
	DoctorID       string  `json:"doctor_id"`
	DoctorName     string  `json:"doctor_name"`
	Specialization string  `json:"specialization"`
	Fee            float64 `json:"fee"`
}

// FieldTripEmployee is an employee assigned to a field trip, with their bonus.
type FieldTripEmployee struct {
	EmployeeID   string  `json:"employee_id"`
	EmployeeName string  `json:"employee_name"`
	Position     string  `json:"position"`
	Bonus        float64 `json:"bonus"`
}

// FieldTripSaleRecord is one off-site service sale. SelectedDoctors and
// SelectedEmployees are the source of truth for the fee/bonus totals; the
// aggregate fields are only trusted when the upstream provides them as
// numbers.
type FieldTripSaleRecord struct {
	ID                   string              `json:"id"`
	Date                 string              `json:"date"`
	Organization         string              `json:"organization"`
	Participants         int                 `json:"participants"`
	PricePerParticipant  float64             `json:"price_per_participant"`
	TotalAmount          float64             `json:"total_amount"`
	TotalDoctorFees      float64             `json:"total_doctor_fees"`
	TotalEmployeeBonuses float64             `json:"total_employee_bonuses"`
	SelectedDoctors      []FieldTripDoctor   `json:"selected_doctors"`
	SelectedEmployees    []FieldTripEmployee `json:"selected_employees"`
}

// FinancialSummary is the per-(month, year) roll-up of the six report
// streams. Never persisted; rebuilt from its inputs on every recompute.
type FinancialSummary struct {
	Month            int     `json:"month"`
	Year             int     `json:"year"`
	TreatmentIncome  float64 `json:"treatment_income"`
	SalesIncome      float64 `json:"sales_income"`
	FieldTripIncome  float64 `json:"field_trip_income"`
	SalaryExpense    float64 `json:"salary_expense"`
	DoctorFeeExpense float64 `json:"doctor_fee_expense"`
	FieldTripExpense float64 `json:"field_trip_expense"`
	Expenses         float64 `json:"expenses"`
	NetProfit        float64 `json:"net_profit"`
}
