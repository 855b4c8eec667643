package counters

import "gorm.io/gorm"

// Reconciler binds the stateless counter service to a database handle so
// background jobs can trigger recounts without carrying gorm around.
type Reconciler struct {
	db      *gorm.DB
	service *Service
}

func NewReconciler(db *gorm.DB, service *Service) *Reconciler {
	return &Reconciler{db: db, service: service}
}

func (r *Reconciler) RecountAll() (int, error) {
	return r.service.RecountAll(r.db)
}

func (r *Reconciler) RecountUser(userID uint) error {
	return r.service.RecountUser(r.db, userID)
}
