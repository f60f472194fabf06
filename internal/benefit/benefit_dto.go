package benefit

import "github.com/shopspring/decimal"

type CreateBenefitRequest struct {
	Name        string          `json:"name" binding:"required,max=120"`
	Description string          `json:"description"`
	Kind        string          `json:"kind" binding:"required"`
	Amount      decimal.Decimal `json:"amount"`
	Percentage  decimal.Decimal `json:"percentage"`
	Active      *bool           `json:"active"`
	IsMandatory bool            `json:"is_mandatory"`
}

type AssignRequest struct {
	EmployeeID int64 `json:"employee_id" binding:"required,gt=0"`
	Active     *bool `json:"active"`
}

type BenefitResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Kind        string `json:"kind"`
	Amount      string `json:"amount"`
	Percentage  string `json:"percentage"`
	Active      bool   `json:"active"`
	IsMandatory bool   `json:"is_mandatory,omitempty"`
}

type AssignmentResponse struct {
	BenefitID  string `json:"benefit_id"`
	EmployeeID int64  `json:"employee_id"`
	Active     bool   `json:"active"`
}

func mapDeduction(d Deduction) BenefitResponse {
	return BenefitResponse{
		ID:          d.ID.String(),
		Name:        d.Name,
		Description: d.Description,
		Kind:        d.Kind,
		Amount:      d.Amount.StringFixed(2),
		Percentage:  d.Percentage.StringFixed(2),
		Active:      d.Active,
		IsMandatory: d.IsMandatory,
	}
}

func mapAllowance(a Allowance) BenefitResponse {
	return BenefitResponse{
		ID:          a.ID.String(),
		Name:        a.Name,
		Description: a.Description,
		Kind:        a.Kind,
		Amount:      a.Amount.StringFixed(2),
		Percentage:  a.Percentage.StringFixed(2),
		Active:      a.Active,
	}
}
