package models

// BillStatus mirrors the finance service's payment status of a bill.
type BillStatus string

const (
	BillUnpaid  BillStatus = "unpaid"
	BillPartial BillStatus = "partial"
	BillPaid    BillStatus = "paid"
)


// Bill is a tuition or fee bill; Amount is in rupiah.
type Bill struct {
	ID        int64      `json:"id" db:"id"`
	StudentID int64      `json:"studentId" db:"student_id"`
	Term      Term       `json:"term" db:"term"`
	Kind      string     `json:"kind" db:"kind"`
	Amount    float64    `json:"amount" db:"amount"`
	Status    BillStatus `json:"status" db:"status"`
}
