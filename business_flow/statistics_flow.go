package businessflow

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/evalforge/workforce-suite/app/dto"
	"github.com/evalforge/workforce-suite/config"
	"github.com/evalforge/workforce-suite/models"
	"github.com/evalforge/workforce-suite/repository"
	"github.com/evalforge/workforce-suite/utils"
	"github.com/redis/go-redis/v9"
)

const recentActivityLimit = 5

// StatisticsFlow produces the tenant-wide dashboard aggregate
type StatisticsFlow interface {
	GetStatistics(ctx context.Context, actor *Identity, from, to *time.Time) (*dto.StatisticsResponse, error)
}

// StatisticsFlowImpl implements the statistics business flow
type StatisticsFlowImpl struct {
	campaignRepo    repository.CampaignRepository
	evaluationRepo  repository.CampaignEvaluationRepository
	certificateRepo repository.CertificateRepository
	cacheConfig     *config.CacheConfig
	rc              *redis.Client
}

// NewStatisticsFlow creates a new statistics flow instance
func NewStatisticsFlow(
	campaignRepo repository.CampaignRepository,
	evaluationRepo repository.CampaignEvaluationRepository,
	certificateRepo repository.CertificateRepository,
	cacheConfig *config.CacheConfig,
	rc *redis.Client,
) StatisticsFlow {
	return &StatisticsFlowImpl{
		campaignRepo:    campaignRepo,
		evaluationRepo:  evaluationRepo,
		certificateRepo: certificateRepo,
		cacheConfig:     cacheConfig,
		rc:              rc,
	}
}

// GetStatistics returns the tenant dashboard aggregate, optionally windowed
// by a created-at range. Unwindowed requests are served from Redis when a
// fresh copy exists; staleness is bounded by the cache TTL only, mutations do
// not invalidate. Windowed requests always recompute.
func (s *StatisticsFlowImpl) GetStatistics(ctx context.Context, actor *Identity, from, to *time.Time) (*dto.StatisticsResponse, error) {
	cacheKey := s.cacheKey(actor.TenantID)
	cacheable := from == nil && to == nil

	if s.rc != nil && cacheable {
		if bs, err := s.rc.Get(ctx, cacheKey).Bytes(); err == nil && len(bs) > 0 {
			var out dto.StatisticsResponse
			if err := json.Unmarshal(bs, &out); err == nil {
				out.Message = "Statistics retrieved from cache"
				return &out, nil
			}
		}
	}

	notDeleted := utils.ToPtr(false)
	campaigns, err := s.campaignRepo.ByFilter(ctx, models.CampaignFilter{
		TenantID:      &actor.TenantID,
		IsDeleted:     notDeleted,
		CreatedAfter:  from,
		CreatedBefore: to,
	}, "created_at DESC", 0, 0)
	if err != nil {
		return nil, NewBusinessError("STATISTICS_FAILED", "Failed to load campaigns", err)
	}

	evaluations, err := s.evaluationRepo.ByFilter(ctx, models.CampaignEvaluationFilter{
		TenantID:      &actor.TenantID,
		CreatedAfter:  from,
		CreatedBefore: to,
	}, "created_at DESC", 0, 0)
	if err != nil {
		return nil, NewBusinessError("STATISTICS_FAILED", "Failed to load evaluations", err)
	}

	certificates, err := s.certificateRepo.ByFilter(ctx, models.CertificateFilter{
		TenantID:      &actor.TenantID,
		CreatedAfter:  from,
		CreatedBefore: to,
	}, "created_at DESC", 0, 0)
	if err != nil {
		return nil, NewBusinessError("STATISTICS_FAILED", "Failed to load certificates", err)
	}

	resp := ComputeStatistics(campaigns, evaluations, certificates, utils.UTCNow())

	if s.rc != nil && cacheable {
		if bs, err := json.Marshal(resp); err == nil {
			_ = s.rc.Set(ctx, cacheKey, bs, s.cacheTTL()).Err()
		}
	}

	return resp, nil
}

func (s *StatisticsFlowImpl) cacheKey(tenantID uint) string {
	prefix := ""
	if s.cacheConfig != nil {
		prefix = s.cacheConfig.RedisPrefix
	}
	return fmt.Sprintf("%s%s:%d", prefix, utils.StatisticsCacheKey, tenantID)
}

func (s *StatisticsFlowImpl) cacheTTL() time.Duration {
	if s.cacheConfig != nil && s.cacheConfig.DefaultTTL > 0 {
		return s.cacheConfig.DefaultTTL
	}
	return 5 * time.Minute
}

// ComputeStatistics aggregates the dashboard numbers from tenant data.
//
// mostActiveCampaignType is the type with the highest campaign count; on a
// tie the type encountered first in scan order wins. Average completion days
// covers completed campaigns with an actual end stamp, measured from the
// actual start when present and the planned start otherwise.
// The recent-activity feed merges the five newest campaigns with the five
// newest completed evaluations, newest first.
func ComputeStatistics(campaigns []*models.Campaign, evaluations []*models.CampaignEvaluation, certificates []*models.Certificate, now time.Time) *dto.StatisticsResponse {
	byStatus := make(map[string]int)
	byType := make(map[string]int)

	mostActive := ""
	mostActiveCount := 0
	for _, campaign := range campaigns {
		byStatus[campaign.Status.String()]++
		count := byType[campaign.Type.String()] + 1
		byType[campaign.Type.String()] = count
		if count > mostActiveCount {
			mostActiveCount = count
			mostActive = campaign.Type.String()
		}
	}

	completedEvaluations := 0
	for _, evaluation := range evaluations {
		if evaluation.IsCompleted {
			completedEvaluations++
		}
	}

	completionDays := 0.0
	completionSamples := 0
	for _, campaign := range campaigns {
		if campaign.Status != models.CampaignStatusCompleted || campaign.ActualEndDate == nil {
			continue
		}
		start := campaign.StartDate
		if campaign.ActualStartDate != nil {
			start = *campaign.ActualStartDate
		}
		completionDays += utils.DaysBetween(start, *campaign.ActualEndDate)
		completionSamples++
	}
	avgCompletionDays := 0.0
	if completionSamples > 0 {
		avgCompletionDays = utils.Round2(completionDays / float64(completionSamples))
	}

	activeCertificates := 0
	revokedCertificates := 0
	for _, certificate := range certificates {
		if certificate.Status.IsActive() {
			activeCertificates++
		}
		if certificate.IsRevoked() {
			revokedCertificates++
		}
	}

	return &dto.StatisticsResponse{
		Message:                "Statistics retrieved successfully",
		GeneratedAt:            now,
		TotalCampaigns:         len(campaigns),
		CampaignsByStatus:      byStatus,
		CampaignsByType:        byType,
		MostActiveCampaignType: mostActive,
		TotalEvaluations:       len(evaluations),
		CompletedEvaluations:   completedEvaluations,
		CompletionPercentage:   utils.Percentage(completedEvaluations, len(evaluations)),
		AvgCompletionDays:      avgCompletionDays,
		TotalCertificates:      len(certificates),
		ActiveCertificates:     activeCertificates,
		RevokedCertificates:    revokedCertificates,
		RecentActivity:         buildActivityFeed(campaigns, evaluations),
	}
}

// buildActivityFeed merges the newest campaigns and completed evaluations
// into a single feed, newest first, capped at twice the per-kind limit.
func buildActivityFeed(campaigns []*models.Campaign, evaluations []*models.CampaignEvaluation) []dto.ActivityFeedItem {
	recentCampaigns := make([]*models.Campaign, len(campaigns))
	copy(recentCampaigns, campaigns)
	sort.SliceStable(recentCampaigns, func(i, j int) bool {
		return recentCampaigns[i].CreatedAt.After(recentCampaigns[j].CreatedAt)
	})
	if len(recentCampaigns) > recentActivityLimit {
		recentCampaigns = recentCampaigns[:recentActivityLimit]
	}

	completed := make([]*models.CampaignEvaluation, 0, len(evaluations))
	for _, evaluation := range evaluations {
		if evaluation.IsCompleted && evaluation.SubmittedAt != nil {
			completed = append(completed, evaluation)
		}
	}
	sort.SliceStable(completed, func(i, j int) bool {
		return completed[i].SubmittedAt.After(*completed[j].SubmittedAt)
	})
	if len(completed) > recentActivityLimit {
		completed = completed[:recentActivityLimit]
	}

	feed := make([]dto.ActivityFeedItem, 0, len(recentCampaigns)+len(completed))
	for _, campaign := range recentCampaigns {
		feed = append(feed, dto.ActivityFeedItem{
			Kind:       "campaign",
			Title:      campaign.Title,
			Reference:  campaign.UUID.String(),
			OccurredAt: campaign.CreatedAt,
		})
	}
	for _, evaluation := range completed {
		feed = append(feed, dto.ActivityFeedItem{
			Kind:       "evaluation",
			Title:      fmt.Sprintf("Evaluation of %s", evaluation.EvaluatedUserID),
			Reference:  evaluation.UUID.String(),
			OccurredAt: *evaluation.SubmittedAt,
		})
	}

	sort.SliceStable(feed, func(i, j int) bool {
		return feed[i].OccurredAt.After(feed[j].OccurredAt)
	})

	return feed
}
