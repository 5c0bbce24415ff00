package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type CreateWorkRequest struct {
	Name        string          `json:"name" binding:"required"`
	StartDate   time.Time       `json:"startDate" binding:"required"`
	EndDate     *time.Time      `json:"endDate"`
	TotalBudget decimal.Decimal `json:"totalBudget"`
	AdminID     *uint           `json:"adminId"`
}

type UpdateWorkRequest struct {
	Name        *string          `json:"name"`
	StartDate   *time.Time       `json:"startDate"`
	EndDate     *time.Time       `json:"endDate"`
	TotalBudget *decimal.Decimal `json:"totalBudget"`
	AdminID     *uint            `json:"adminId"`
	IsArchived  *bool            `json:"isArchived"`
}

type CreateSubgroupRequest struct {
	Name   string          `json:"name" binding:"required"`
	Budget decimal.Decimal `json:"budget"`
}

type UpdateSubgroupRequest struct {
	Name   *string          `json:"name"`
	Budget *decimal.Decimal `json:"budget"`
}

type CreatePartRequest struct {
	Name       string          `json:"name" binding:"required"`
	Budget     decimal.Decimal `json:"budget"`
	SubgroupID *uint           `json:"subgroupId"`
}

type UpdatePartRequest struct {
	Name       *string          `json:"name"`
	Budget     *decimal.Decimal `json:"budget"`
	SubgroupID *uint            `json:"subgroupId"`
	WorkID     *uint            `json:"workId"`
}
