package dashboard

import (
	"context"

	common_models "go-los/internal/common/models"
	"go-los/internal/features/application"
	"go-los/internal/features/collection"
	"go-los/internal/features/disbursal"
	"go-los/internal/features/lead"
	"go-los/internal/features/sanction"

	"go.mongodb.org/mongo-driver/bson"
)

type LeadCounts struct {
	Total     int64 `json:"total"`
	New       int64 `json:"new"`
	Allocated int64 `json:"allocated"`
	Held      int64 `json:"held"`
	Rejected  int64 `json:"rejected"`
}

type ApplicationCounts struct {
	Total      int64 `json:"total"`
	New        int64 `json:"new"`
	Allocated  int64 `json:"allocated"`
	Held       int64 `json:"held"`
	Rejected   int64 `json:"rejected"`
	Sanctioned int64 `json:"sanctioned"`
}

type SanctionCounts struct {
	New        int64 `json:"new"`
	Sanctioned int64 `json:"sanctioned"`
}

type DisbursalCounts struct {
	New       int64 `json:"new"`
	Allocated int64 `json:"allocated"`
	Pending   int64 `json:"pending"`
	Disbursed int64 `json:"disbursed"`
}

type CollectionCounts struct {
	Active int64 `json:"active"`
	Closed int64 `json:"closed"`
}

// TotalRecords is the landing-page summary for every role.
type TotalRecords struct {
	Leads        LeadCounts        `json:"leads"`
	Applications ApplicationCounts `json:"applications"`
	Sanctions    SanctionCounts    `json:"sanctions"`
	Disbursals   DisbursalCounts   `json:"disbursals"`
	Collections  CollectionCounts  `json:"collections"`
}

type DashboardService interface {
	TotalRecords(ctx context.Context, actor common_models.Actor) (TotalRecords, error)
}

type DashboardServiceImpl struct {
	Leads      lead.LeadRepository
	Apps       application.ApplicationRepository
	Sanctions  sanction.SanctionRepository
	Disbursals disbursal.DisbursalRepository
	Closed     collection.ClosedRepository
}

func NewDashboardService(
	leads lead.LeadRepository,
	apps application.ApplicationRepository,
	sanctions sanction.SanctionRepository,
	disbursals disbursal.DisbursalRepository,
	closed collection.ClosedRepository,
) DashboardService {
	return &DashboardServiceImpl{
		Leads:      leads,
		Apps:       apps,
		Sanctions:  sanctions,
		Disbursals: disbursals,
		Closed:     closed,
	}
}

var clean = bson.M{
	"onHold":     bson.M{"$ne": true},
	"isRejected": bson.M{"$ne": true},
}

func (s *DashboardServiceImpl) TotalRecords(ctx context.Context, actor common_models.Actor) (TotalRecords, error) {
	var out TotalRecords

	counts := []struct {
		dst   *int64
		count func(context.Context, bson.M) (int64, error)
		query bson.M
	}{
		{&out.Leads.Total, s.Leads.Count, bson.M{}},
		{&out.Leads.New, s.Leads.Count, merge(clean, bson.M{"screenerId": nil, "isRecommended": bson.M{"$ne": true}})},
		{&out.Leads.Allocated, s.Leads.Count, merge(clean, bson.M{"screenerId": actor.ID, "isRecommended": bson.M{"$ne": true}})},
		{&out.Leads.Held, s.Leads.Count, bson.M{"onHold": true}},
		{&out.Leads.Rejected, s.Leads.Count, bson.M{"isRejected": true}},

		{&out.Applications.Total, s.Apps.Count, bson.M{}},
		{&out.Applications.New, s.Apps.Count, merge(clean, bson.M{"creditManagerId": nil, "isRecommended": bson.M{"$ne": true}})},
		{&out.Applications.Allocated, s.Apps.Count, merge(clean, bson.M{"creditManagerId": actor.ID, "isRecommended": bson.M{"$ne": true}})},
		{&out.Applications.Held, s.Apps.Count, bson.M{"onHold": true}},
		{&out.Applications.Rejected, s.Apps.Count, bson.M{"isRejected": true}},
		{&out.Applications.Sanctioned, s.Apps.Count, bson.M{"isApproved": true}},

		{&out.Sanctions.New, s.Sanctions.Count, merge(clean, bson.M{"isApproved": bson.M{"$ne": true}})},
		{&out.Sanctions.Sanctioned, s.Sanctions.Count, bson.M{"isApproved": true}},

		{&out.Disbursals.New, s.Disbursals.Count, merge(clean, bson.M{"disbursalManagerId": nil, "isRecommended": bson.M{"$ne": true}})},
		{&out.Disbursals.Allocated, s.Disbursals.Count, merge(clean, bson.M{"disbursalManagerId": actor.ID, "isRecommended": bson.M{"$ne": true}})},
		{&out.Disbursals.Pending, s.Disbursals.Count, merge(clean, bson.M{"isRecommended": true, "isDisbursed": bson.M{"$ne": true}})},
		{&out.Disbursals.Disbursed, s.Disbursals.Count, bson.M{"isDisbursed": true}},
	}

	for _, c := range counts {
		n, err := c.count(ctx, c.query)
		if err != nil {
			return out, err
		}
		*c.dst = n
	}

	active, err := s.Closed.CountWithEntry(ctx, bson.M{
		"isActive":    true,
		"isDisbursed": true,
		"isClosed":    bson.M{"$ne": true},
	})
	if err != nil {
		return out, err
	}
	out.Collections.Active = active

	closedCount, err := s.Closed.CountWithEntry(ctx, bson.M{
		"isActive": bson.M{"$ne": true},
		"$or": []bson.M{
			{"isClosed": true},
			{"isSettled": true},
			{"isWriteOff": true},
		},
	})
	if err != nil {
		return out, err
	}
	out.Collections.Closed = closedCount

	return out, nil
}

func merge(base, extra bson.M) bson.M {
	out := bson.M{}
	for k, v := range base {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}
