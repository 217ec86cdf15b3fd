package feed

import (
	"context"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/wlstjr1123/carebridge/internal/domain/facility"
)

const defaultWorkers = 8

// Importer refreshes the facility tables from the open-data feed. Regions
// are fetched concurrently; one failing region is logged and skipped so a
// flaky upstream never voids the whole sync.
type Importer struct {
	client  *Client
	repo    facility.Repository
	logger  zerolog.Logger
	workers int
	kst     *time.Location
}

func NewImporter(client *Client, repo facility.Repository, logger zerolog.Logger) *Importer {
	kst, err := time.LoadLocation("Asia/Seoul")
	if err != nil {
		kst = time.FixedZone("KST", 9*60*60)
	}
	return &Importer{
		client:  client,
		repo:    repo,
		logger:  logger.With().Str("component", "feed-import").Logger(),
		workers: defaultWorkers,
		kst:     kst,
	}
}

// SyncStatus pulls the latest bed snapshot for every known region and
// replaces each facility's stored snapshot.
func (i *Importer) SyncStatus(ctx context.Context) error {
	dict, err := i.repo.RegionDict(ctx)
	if err != nil {
		return fmt.Errorf("region dict: %w", err)
	}

	var imported, skipped atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(i.workers)

	for sido, sigungus := range dict {
		for _, sigungu := range sigungus {
			sido, sigungu := sido, sigungu
			g.Go(func() error {
				items, err := i.client.BedStatus(ctx, sido, sigungu)
				if err != nil {
					i.logger.Warn().Err(err).
						Str("sido", sido).Str("sigungu", sigungu).
						Msg("region fetch failed")
					return nil
				}
				for _, item := range items {
					if item.HPID == "" {
						continue
					}
					if err := i.upsertStatus(ctx, item); err != nil {
						skipped.Add(1)
						continue
					}
					imported.Add(1)
				}
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return err
	}

	i.logger.Info().
		Int64("imported", imported.Load()).
		Int64("skipped", skipped.Load()).
		Msg("bed status sync finished")
	return nil
}

func (i *Importer) upsertStatus(ctx context.Context, item Item) error {
	f, err := i.repo.GetByHPID(ctx, item.HPID)
	if err != nil {
		// Facility not registered; new HPIDs only appear via SyncFacilities.
		return err
	}

	hvs26 := SafeInt(item.HVS26)
	birthAvail, birthTotal := ParseBirthBeds(item.HV42, hvs26)

	st := &facility.Status{
		FacilityID: f.ID,

		ERGeneralAvailable: SafeInt(item.HVEC),
		ERGeneralTotal:     SafeInt(item.HVS01),

		ERChildAvailable: SafeInt(item.HV28),
		ERChildTotal:     SafeInt(item.HVS02),

		BirthAvailable: birthAvail,
		BirthTotal:     birthTotal,

		NegativePressureAvailable: SafeInt(item.HV29),
		NegativePressureTotal:     SafeInt(item.HVS03),

		IsolationGeneralAvailable: SafeInt(item.HV30),
		IsolationGeneralTotal:     SafeInt(item.HVS04),

		IsolationCohortAvailable: SafeInt(item.HV27),
		IsolationCohortTotal:     SafeInt(item.HVS59),

		HasCT:         YNToBool(item.HVCTAYN),
		HasMRI:        YNToBool(item.HVMRIAYN),
		HasAngio:      YNToBool(item.HVAngioYN),
		HasVentilator: YNToBool(item.HVVentiaYN),

		ReportedAt: ParseHVDate(item.HVDate, i.kst),
	}
	return i.repo.UpsertStatus(ctx, st)
}

// SyncFacilities refreshes identity fields (name, address, phone,
// coordinates) for the given HPIDs from the basic-info endpoint.
func (i *Importer) SyncFacilities(ctx context.Context, hpids []string) error {
	var updated atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(i.workers)

	for _, hpid := range hpids {
		hpid := hpid
		g.Go(func() error {
			info, err := i.client.BasicInfo(ctx, hpid)
			if err != nil {
				i.logger.Warn().Err(err).Str("hpid", hpid).Msg("basic info fetch failed")
				return nil
			}
			if info == nil {
				return nil
			}

			f, err := i.repo.GetByHPID(ctx, hpid)
			if err != nil {
				return nil
			}

			f.Name = info.DutyName
			if info.DutyAddr != "" {
				addr := info.DutyAddr
				f.Address = &addr
			}
			if info.DutyTel3 != "" {
				tel := info.DutyTel3
				f.Tel = &tel
			}
			if lat, err := strconv.ParseFloat(info.Lat, 64); err == nil {
				f.Lat = &lat
			}
			if lng, err := strconv.ParseFloat(info.Lng, 64); err == nil {
				f.Lng = &lng
			}

			if err := i.repo.Upsert(ctx, f); err != nil {
				i.logger.Warn().Err(err).Str("hpid", hpid).Msg("facility upsert failed")
				return nil
			}
			updated.Add(1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	i.logger.Info().Int64("updated", updated.Load()).Msg("facility sync finished")
	return nil
}
