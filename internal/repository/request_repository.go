package repository

import (
	"time"

	"github.com/liverool/volleymate/internal/models"
	"gorm.io/gorm"
)

type RequestRepository struct {
	db *gorm.DB
}

func NewRequestRepository(db *gorm.DB) *RequestRepository {
	return &RequestRepository{db: db}
}

func (r *RequestRepository) Create(request *models.Request) error {
	return r.db.Create(request).Error
}

func (r *RequestRepository) FindByID(id uint) (*models.Request, error) {
	var request models.Request
	err := r.db.Preload("User").First(&request, id).Error
	return &request, err
}

// ListOpen returns requests the viewer can show interest in: not their own,
// and not in a terminal status.
func (r *RequestRepository) ListOpen(viewerID uint, limit int) ([]models.Request, error) {
	var requests []models.Request
	err := r.db.Preload("User").
		Where("user_id <> ?", viewerID).
		Where("status NOT IN ?", []models.RequestStatus{models.RequestDone, models.RequestCancelled}).
		Order("start_time ASC").
		Limit(limit).
		Find(&requests).Error
	return requests, err
}

func (r *RequestRepository) ListMine(ownerID uint, limit int) ([]models.Request, error) {
	var requests []models.Request
	err := r.db.Preload("User").
		Where("user_id = ?", ownerID).
		Order("created_at DESC").
		Limit(limit).
		Find(&requests).Error
	return requests, err
}

func (r *RequestRepository) UpdateStatus(requestID uint, status models.RequestStatus) error {
	return r.db.Model(&models.Request{}).Where("id = ?", requestID).Update("status", status).Error
}

func (r *RequestRepository) Delete(requestID uint) error {
	return r.db.Delete(&models.Request{}, requestID).Error
}

// CountInterests returns interest counts per request in one query.
func (r *RequestRepository) CountInterests(requestIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(requestIDs))
	if len(requestIDs) == 0 {
		return counts, nil
	}

	type row struct {
		RequestID uint
		N         int64
	}
	var rows []row
	err := r.db.Model(&models.RequestInterest{}).
		Select("request_id, COUNT(*) AS n").
		Where("request_id IN ?", requestIDs).
		Group("request_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, rr := range rows {
		counts[rr.RequestID] = rr.N
	}
	return counts, nil
}

// ExpireOpenBefore moves stale open requests whose start time passed the
// cutoff into "done". Used by the background scheduler.
func (r *RequestRepository) ExpireOpenBefore(cutoff time.Time) (int64, error) {
	res := r.db.Model(&models.Request{}).
		Where("status IN ? AND start_time < ?", []models.RequestStatus{models.RequestOpen, models.RequestClosed}, cutoff).
		Update("status", models.RequestDone)
	return res.RowsAffected, res.Error
}
