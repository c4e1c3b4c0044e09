package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iliyamo/bookclub-cafe/internal/model"
)

// Fixed identifiers of the sample rows so that links stay stable across
// restarts.
const (
	SeedOwnerID = "owner-1"
	SeedCafeID1 = "cafe-1"
	SeedCafeID2 = "cafe-2"
	SeedClubID1 = "club-1"
	SeedClubID2 = "club-2"
)

// tehran is a fixed +03:30 zone; the container images we ship do not carry
// tzdata.
var tehran = time.FixedZone("IRST", 3*3600+30*60)

func strp(s string) *string { return &s }

// sessionAt returns the day offset days from now at hour:min Tehran time.
func sessionAt(now time.Time, days, hour, min int) time.Time {
	d := now.In(tehran).AddDate(0, 0, days)
	return time.Date(d.Year(), d.Month(), d.Day(), hour, min, 0, 0, tehran).UTC()
}

// Sample is the fixed data set loaded at startup.
type Sample struct {
	Users  []*model.User
	Cafes  []*model.Cafe
	Clubs  []*model.Club
	Events []*model.Event
}

// SampleData builds the sample cafes, clubs and events.  Event dates are
// placed relative to now: three sessions in the coming weeks and one that
// already took place.
func SampleData(now time.Time) Sample {
	var s Sample
	s.Users = append(s.Users, &model.User{
		ID:        SeedOwnerID,
		Username:  "ketabkhaneh",
		Email:     "owner@bookclub.ir",
		FullName:  "مدیر کافه کتاب",
		Role:      model.RoleAdmin,
		CreatedAt: now,
	})

	s.Cafes = append(s.Cafes,
		&model.Cafe{
			ID:          SeedCafeID1,
			Name:        "کافه کتاب",
			District:    6,
			Address:     "تهران، خیابان انقلاب، روبروی دانشگاه تهران",
			Phone:       strp("02166400000"),
			Description: strp("کافه‌ای آرام برای کتاب‌خوانی و گفتگو"),
			OwnerID:     strp(SeedOwnerID),
			CreatedAt:   now,
		},
		&model.Cafe{
			ID:        SeedCafeID2,
			Name:      "کافه لمیز",
			District:  3,
			Address:   "تهران، خیابان ولیعصر، بالاتر از میدان ونک",
			OwnerID:   strp(SeedOwnerID),
			CreatedAt: now,
		},
	)

	s.Clubs = append(s.Clubs,
		&model.Club{
			ID:          SeedClubID1,
			Name:        "باشگاه رمان کلاسیک",
			Description: "خوانش و گفتگو درباره‌ی رمان‌های کلاسیک فارسی و جهان",
			CafeID:      SeedCafeID1,
			OwnerID:     SeedOwnerID,
			IsActive:    true,
			CreatedAt:   now,
		},
		&model.Club{
			ID:          SeedClubID2,
			Name:        "حلقه‌ی شعر معاصر",
			Description: "هر هفته یک دفتر شعر از شاعران معاصر ایران",
			CafeID:      SeedCafeID2,
			OwnerID:     SeedOwnerID,
			IsActive:    true,
			CreatedAt:   now,
		},
	)

	s.Events = append(s.Events,
		&model.Event{
			ID:          "1",
			BookTitle:   "بوف کور",
			Author:      "صادق هدایت",
			Description: "داستان تلخ و تأثیرگذار هدایت که تصویری از وضعیت روشنفکر ایرانی در برابر جامعه ارائه می‌دهد. این اثر کوتاه اما عمیق، یکی از شاهکارهای ادبیات معاصر فارسی محسوب می‌شود.",
			Category:    "رمان کلاسیک",
			Date:        sessionAt(now, 7, 16, 0),
			Time:        "ساعت ۱۶:۰۰ تا ۱۸:۰۰",
			Capacity:    12,
			ImageURL:    strp("https://images.unsplash.com/photo-1481627834876-b7833e8f5570"),
			ClubID:      SeedClubID1,
			CafeID:      SeedCafeID1,
			CreatedAt:   now,
		},
		&model.Event{
			ID:          "2",
			BookTitle:   "هوای تازه",
			Author:      "احمد شاملو",
			Description: "مجموعه شعرهای زیبا و متفاوت شاملو که نگاهی نو به شعر فارسی ارائه می‌دهد. این اثر نمونه‌ای از شعر نو و مدرن فارسی است.",
			Category:    "شعر معاصر",
			Date:        sessionAt(now, 14, 17, 0),
			Time:        "ساعت ۱۷:۰۰ تا ۱۹:۰۰",
			Capacity:    10,
			ImageURL:    strp("https://images.unsplash.com/photo-1507003211169-0a1dd7228f2d"),
			ClubID:      SeedClubID2,
			CafeID:      SeedCafeID2,
			CreatedAt:   now,
		},
		&model.Event{
			ID:          "3",
			BookTitle:   "سووشون",
			Author:      "سیمین دانشور",
			Description: "رمان برجسته‌ای از ادبیات معاصر فارسی که نگاهی عمیق به جامعه ایران دارد و تصویری از تغییرات اجتماعی و فرهنگی ارائه می‌دهد.",
			Category:    "داستان کوتاه",
			Date:        sessionAt(now, 21, 16, 30),
			Time:        "ساعت ۱۶:۳۰ تا ۱۸:۳۰",
			Capacity:    15,
			ImageURL:    strp("https://images.unsplash.com/photo-1544716278-ca5e3f4abd8c"),
			ClubID:      SeedClubID1,
			CafeID:      SeedCafeID1,
			CreatedAt:   now,
		},
		&model.Event{
			ID:          "4",
			BookTitle:   "کلیدر",
			Author:      "محمود دولت‌آبادی",
			Description: "جلسه‌ی گذشته درباره‌ی جلد نخست کلیدر و روایت زندگی روستایی خراسان.",
			Category:    "رمان کلاسیک",
			Date:        sessionAt(now, -10, 16, 0),
			Time:        "ساعت ۱۶:۰۰ تا ۱۸:۰۰",
			Capacity:    12,
			ClubID:      SeedClubID1,
			CafeID:      SeedCafeID1,
			CreatedAt:   now,
		},
	)
	return s
}

// Seed writes the sample data through st.  If the first sample cafe is
// already present the store is assumed seeded and Seed does nothing.
func Seed(ctx context.Context, st Store, now time.Time) error {
	if _, err := st.GetCafe(ctx, SeedCafeID1); err == nil {
		return nil
	} else if !errors.Is(err, ErrCafeNotFound) {
		return err
	}
	data := SampleData(now)
	for _, u := range data.Users {
		if err := st.CreateUser(ctx, u); err != nil {
			return fmt.Errorf("seed user %s: %w", u.ID, err)
		}
	}
	for _, c := range data.Cafes {
		if err := st.CreateCafe(ctx, c); err != nil {
			return fmt.Errorf("seed cafe %s: %w", c.ID, err)
		}
	}
	for _, c := range data.Clubs {
		if err := st.CreateClub(ctx, c); err != nil {
			return fmt.Errorf("seed club %s: %w", c.ID, err)
		}
	}
	for _, e := range data.Events {
		if err := st.CreateEvent(ctx, e); err != nil {
			return fmt.Errorf("seed event %s: %w", e.ID, err)
		}
	}
	return nil
}
