package services

import (
	"context"

	"kartvizit.link/pkg/auth"
)

// PlanGate kullanıcının planının yeni kartvizit oluşturmaya izin verip vermediğine karar verir.
type PlanGate interface {
	CanCreateCard(ctx context.Context, identity auth.Identity, currentCount int64) error
}

// StaticPlanGate herkese aynı üst sınırı uygular. MaxCards 0 ise sınır yoktur.
type StaticPlanGate struct {
	MaxCards int
}

func (g StaticPlanGate) CanCreateCard(_ context.Context, identity auth.Identity, currentCount int64) error {
	if identity.IsSystem || g.MaxCards <= 0 {
		return nil
	}
	if currentCount >= int64(g.MaxCards) {
		return ErrCardLimitReached
	}
	return nil
}

var _ PlanGate = StaticPlanGate{}
