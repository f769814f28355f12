package payroll

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/formacentre/payroll-backend-go/internal/domain/session"
	"github.com/formacentre/payroll-backend-go/internal/domain/user"
)

// SessionStatus summarizes how far along a session's payroll is.
type SessionStatus string

const (
	StatusNoSheets SessionStatus = "NO_SHEETS"
	StatusPartial  SessionStatus = "PARTIAL"
	StatusComplete SessionStatus = "COMPLETE"
	StatusSettled  SessionStatus = "SETTLED"
)

// SheetView is the serialized form of a payroll sheet as returned by the
// payroll endpoints.
type SheetView struct {
	ID                 string          `json:"id"`
	MemoNumber         string          `json:"memoNumber"`
	Type               SheetType       `json:"type"`
	Period             string          `json:"period"`
	ManagerName        string          `json:"managerName"`
	TotalTutoringHours *float64        `json:"totalTutoringHours,omitempty"`
	TotalGroupHours    *float64        `json:"totalGroupHours,omitempty"`
	GrossAmount        decimal.Decimal `json:"grossAmount"`
	NetAmount          decimal.Decimal `json:"netAmount"`
	CreatedAt          time.Time       `json:"createdAt"`
	UpdatedAt          time.Time       `json:"updatedAt"`
}

// TrainerView pairs one assigned trainer with their sheet, when one exists.
type TrainerView struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Specialty *string    `json:"specialty,omitempty"`
	HasSheet  bool       `json:"hasSheet"`
	Sheet     *SheetView `json:"sheet,omitempty"`
}

// CoordinatorView pairs the session coordinator with their sheet.
type CoordinatorView struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Email    string     `json:"email"`
	HasSheet bool       `json:"hasSheet"`
	Sheet    *SheetView `json:"sheet,omitempty"`
}

// Summary carries the per-session payroll counters and rollup amounts shown
// on the overview screens and consumed by the settlement builder.
type Summary struct {
	TotalTrainers           int             `json:"totalTrainers"`
	TrainersWithSheets      int             `json:"trainersWithSheets"`
	PendingTrainerCount     int             `json:"pendingTrainerCount"`
	PendingTrainers         []string        `json:"pendingTrainers"`
	HasCoordination         bool            `json:"hasCoordination"`
	HasSettlement           bool            `json:"hasSettlement"`
	TotalTutoringHours      float64         `json:"totalTutoringHours"`
	TotalGroupHours         float64         `json:"totalGroupHours"`
	TrainerGrossAmount      decimal.Decimal `json:"trainerGrossAmount"`
	TrainerNetAmount        decimal.Decimal `json:"trainerNetAmount"`
	CoordinationGrossAmount decimal.Decimal `json:"coordinationGrossAmount"`
	CoordinationNetAmount   decimal.Decimal `json:"coordinationNetAmount"`
	TotalGrossAmount        decimal.Decimal `json:"totalGrossAmount"`
	TotalNetAmount          decimal.Decimal `json:"totalNetAmount"`
}

// SessionPayload is the full payroll view of one session.
type SessionPayload struct {
	SessionID       string           `json:"sessionId"`
	Title           string           `json:"title"`
	Period          string           `json:"period"`
	Status          SessionStatus    `json:"status"`
	SettlementStale bool             `json:"settlementStale"`
	Trainers        []TrainerView    `json:"trainers"`
	Coordinator     *CoordinatorView `json:"coordinator,omitempty"`
	Settlement      *SheetView       `json:"settlement,omitempty"`
	Summary         Summary          `json:"summary"`
}

// BuildSessionPayload assembles the payroll view for one session from its
// loaded entity and the full set of its sheets. Trainers are listed in name
// order so the view is stable between calls.
func BuildSessionPayload(sess *session.Session, sheets []Sheet) SessionPayload {
	byTrainer := make(map[string]*Sheet)
	var coordination *Sheet
	var settlement *Sheet
	trainerGross := decimal.Zero
	trainerNet := decimal.Zero
	tutoringHours := decimal.Zero
	groupHours := decimal.Zero
	for i := range sheets {
		sh := &sheets[i]
		switch sh.Type {
		case SheetTypeTrainer:
			// Every trainer sheet counts toward the rollup, even when its
			// trainer has since been unassigned, so the totals stay in step
			// with what the settlement was built from.
			trainerGross = trainerGross.Add(sh.GrossAmount)
			trainerNet = trainerNet.Add(sh.NetAmount)
			tutoringHours = tutoringHours.Add(ClampHours(sh.TotalTutoringHours))
			groupHours = groupHours.Add(ClampHours(sh.TotalGroupHours))
			if sh.TrainerID != nil {
				byTrainer[*sh.TrainerID] = sh
			}
		case SheetTypeCoordination:
			coordination = sh
		case SheetTypeSettlement:
			settlement = sh
		}
	}

	trainers := make([]user.User, len(sess.Trainers))
	copy(trainers, sess.Trainers)
	sort.Slice(trainers, func(i, j int) bool {
		ni, nj := strings.ToLower(trainers[i].Name), strings.ToLower(trainers[j].Name)
		if ni == nj {
			return trainers[i].ID < trainers[j].ID
		}
		return ni < nj
	})

	payload := SessionPayload{
		SessionID: sess.ID,
		Title:     sess.Title,
		Period:    FormatPeriod(sess.StartDate, sess.EndDate),
		Trainers:  make([]TrainerView, 0, len(trainers)),
	}

	pending := make([]string, 0)
	withSheets := 0
	for _, tr := range trainers {
		view := TrainerView{
			ID:        tr.ID,
			Name:      tr.Name,
			Email:     tr.Email,
			Specialty: tr.Specialty,
		}
		if sh, ok := byTrainer[tr.ID]; ok {
			view.HasSheet = true
			view.Sheet = sheetView(sh)
			withSheets++
		} else {
			pending = append(pending, tr.Name)
		}
		payload.Trainers = append(payload.Trainers, view)
	}

	// Coordination amounts count even if the coordinator was unassigned
	// after the sheet was issued.
	coordinationGross := decimal.Zero
	coordinationNet := decimal.Zero
	if coordination != nil {
		coordinationGross = coordination.GrossAmount
		coordinationNet = coordination.NetAmount
	}
	if sess.Coordinator != nil {
		cv := &CoordinatorView{
			ID:    sess.Coordinator.ID,
			Name:  sess.Coordinator.Name,
			Email: sess.Coordinator.Email,
		}
		if coordination != nil {
			cv.HasSheet = true
			cv.Sheet = sheetView(coordination)
		}
		payload.Coordinator = cv
	}

	if settlement != nil {
		payload.Settlement = sheetView(settlement)
	}

	tutoring, _ := tutoringHours.Float64()
	group, _ := groupHours.Float64()
	totalNet := trainerNet.Add(coordinationNet)
	payload.Summary = Summary{
		TotalTrainers:           len(trainers),
		TrainersWithSheets:      withSheets,
		PendingTrainerCount:     len(pending),
		PendingTrainers:         pending,
		HasCoordination:         coordination != nil,
		HasSettlement:           settlement != nil,
		TotalTutoringHours:      tutoring,
		TotalGroupHours:         group,
		TrainerGrossAmount:      trainerGross,
		TrainerNetAmount:        trainerNet,
		CoordinationGrossAmount: coordinationGross,
		CoordinationNetAmount:   coordinationNet,
		TotalGrossAmount:        trainerGross.Add(coordinationGross),
		TotalNetAmount:          totalNet,
	}

	payload.Status = sessionStatus(len(trainers), withSheets, coordination != nil, settlement != nil, sess.Coordinator != nil)
	payload.SettlementStale = settlementStale(settlement, totalNet)

	return payload
}

// NewSheetView converts a stored sheet into its response form.
func NewSheetView(sh *Sheet) *SheetView {
	return sheetView(sh)
}

func sheetView(sh *Sheet) *SheetView {
	return &SheetView{
		ID:                 sh.ID,
		MemoNumber:         sh.MemoNumber,
		Type:               sh.Type,
		Period:             sh.Period,
		ManagerName:        sh.ManagerName,
		TotalTutoringHours: sh.TotalTutoringHours,
		TotalGroupHours:    sh.TotalGroupHours,
		GrossAmount:        sh.GrossAmount,
		NetAmount:          sh.NetAmount,
		CreatedAt:          sh.CreatedAt,
		UpdatedAt:          sh.UpdatedAt,
	}
}

func sessionStatus(totalTrainers, withSheets int, hasCoordination, hasSettlement, hasCoordinator bool) SessionStatus {
	if hasSettlement {
		return StatusSettled
	}
	if withSheets == 0 && !hasCoordination {
		return StatusNoSheets
	}
	complete := withSheets == totalTrainers && (hasCoordination || !hasCoordinator)
	if complete && (totalTrainers > 0 || hasCoordination) {
		return StatusComplete
	}
	return StatusPartial
}

// settlementStale reports whether the settlement sheet no longer matches the
// live sheets it was built from, which happens when a sheet is re-upserted
// after settling.
func settlementStale(settlement *Sheet, liveNetTotal decimal.Decimal) bool {
	if settlement == nil {
		return false
	}
	return !settlement.NetAmount.Equal(liveNetTotal)
}
