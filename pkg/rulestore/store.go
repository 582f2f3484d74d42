// Package rulestore は、スライダー定義・タクソノミー・診断・マクロ・
// 層設定を保持するルールデータベースへの読み取りアダプターです。
// 行は読み出し後キャッシュに載り、実行中は不変として扱います。
// 無効化の手段は Reload だけです。
package rulestore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/errgroup"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/shouni/go-photoscaler-kit/pkg/domain"
)

const (
	cacheKeySliders    = "slider_definitions"
	cacheKeyTaxonomies = "taxonomies"
	cacheKeyDiagnoses  = "diagnoses"
	cacheKeyMacros     = "macros"
	cacheKeyTiers      = "tiers"
	presetKeyPrefix    = "preset:"

	// ルール表は Reload までキャッシュに残します。プリセットだけは
	// ユーザーが更新しうるので短い TTL を持たせます。
	presetTTL = 5 * time.Minute
)

// Store はルールデータベースの読み取り面です。
type Store struct {
	db    *gorm.DB
	cache *cache.Cache
}

// Open は DSN からデータベースを開き、Store を生成します。
// postgres:// で始まる DSN は PostgreSQL、それ以外は SQLite ファイル
// （":memory:" を含む）として扱います。SQLite の場合はマイグレーションと
// 初期データ投入まで行います。
func Open(dsn string) (*Store, error) {
	var dialector gorm.Dialector
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		dialector = postgres.Open(dsn)
	} else {
		dialector = sqlite.Open(dsn)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: open database: %v", domain.ErrRuleLoadFailure, err)
	}

	store := New(db)
	if _, ok := dialector.(*sqlite.Dialector); ok {
		if err := store.Migrate(); err != nil {
			return nil, err
		}
	}
	return store, nil
}

// New は既存の gorm.DB から Store を生成します。
func New(db *gorm.DB) *Store {
	return &Store{
		db:    db,
		cache: cache.New(cache.NoExpiration, 10*time.Minute),
	}
}

// DB は下層の gorm.DB を返します。台帳リポジトリなど同一データベースを
// 共有するコンポーネントの組み立てに使います。
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Migrate はスキーマを適用し、ルール表が空なら初期データを投入します。
func (s *Store) Migrate() error {
	err := s.db.AutoMigrate(
		&sliderDefinitionRow{},
		&taxonomyRow{},
		&diagnosisRow{},
		&macroRow{},
		&tierRow{},
		&presetRow{},
	)
	if err != nil {
		return fmt.Errorf("%w: migrate: %v", domain.ErrRuleLoadFailure, err)
	}

	var count int64
	if err := s.db.Model(&sliderDefinitionRow{}).Count(&count).Error; err != nil {
		return fmt.Errorf("%w: count definitions: %v", domain.ErrRuleLoadFailure, err)
	}
	if count == 0 {
		if err := s.seed(); err != nil {
			return err
		}
	}
	return nil
}

// Load は5つのルール表を並行に温めます。コールドスタートでの失敗は
// 致命的で、そのままプロセスを落とすべきエラーです。
func (s *Store) Load(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error { _, err := s.SliderDefinitions(ctx); return err })
	g.Go(func() error { _, err := s.Taxonomies(ctx); return err })
	g.Go(func() error { _, err := s.Diagnoses(ctx); return err })
	g.Go(func() error { _, err := s.Macros(ctx); return err })
	g.Go(func() error { _, err := s.tiers(ctx); return err })

	if err := g.Wait(); err != nil {
		return err
	}
	slog.InfoContext(ctx, "rule store warmed")
	return nil
}

// Reload はキャッシュを破棄して読み直します。実行中にルール表が
// 変わりうる唯一の経路です。
func (s *Store) Reload(ctx context.Context) error {
	s.cache.Flush()
	return s.Load(ctx)
}

// SliderDefinitions は全27本のスライダー定義を返します。
func (s *Store) SliderDefinitions(ctx context.Context) (map[domain.SliderKey]domain.SliderDefinition, error) {
	if v, ok := s.cache.Get(cacheKeySliders); ok {
		return v.(map[domain.SliderKey]domain.SliderDefinition), nil
	}

	var rows []sliderDefinitionRow
	if err := s.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: slider definitions: %v", domain.ErrRuleLoadFailure, err)
	}

	defs := make(map[domain.SliderKey]domain.SliderDefinition, len(rows))
	for _, row := range rows {
		def, err := row.toDomain()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrRuleLoadFailure, err)
		}
		defs[def.SliderKey] = def
	}

	s.cache.Set(cacheKeySliders, defs, cache.NoExpiration)
	return defs, nil
}

// Taxonomies は全タクソノミールールをコード順で返します。
func (s *Store) Taxonomies(ctx context.Context) ([]domain.TaxonomyRule, error) {
	if v, ok := s.cache.Get(cacheKeyTaxonomies); ok {
		return v.([]domain.TaxonomyRule), nil
	}

	var rows []taxonomyRow
	if err := s.db.WithContext(ctx).Order("code").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: taxonomies: %v", domain.ErrRuleLoadFailure, err)
	}

	rules := make([]domain.TaxonomyRule, 0, len(rows))
	for _, row := range rows {
		cfg, err := row.decodeConfig()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrRuleLoadFailure, err)
		}
		rules = append(rules, domain.TaxonomyRule{
			Code:              row.Code,
			CategoryName:      row.CategoryName,
			Group:             row.RuleGroup,
			VisualDescription: row.VisualDescription,
			Strategy:          row.Strategy,
			SliderConfig:      cfg,
		})
	}

	s.cache.Set(cacheKeyTaxonomies, rules, cache.NoExpiration)
	return rules, nil
}

// Diagnoses は全診断ルールをコード順で返します。
func (s *Store) Diagnoses(ctx context.Context) ([]domain.DiagnosisRule, error) {
	if v, ok := s.cache.Get(cacheKeyDiagnoses); ok {
		return v.([]domain.DiagnosisRule), nil
	}

	var rows []diagnosisRow
	if err := s.db.WithContext(ctx).Order("code").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: diagnoses: %v", domain.ErrRuleLoadFailure, err)
	}

	rules := make([]domain.DiagnosisRule, 0, len(rows))
	for _, row := range rows {
		cfg, err := row.decodeConfig()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrRuleLoadFailure, err)
		}
		rules = append(rules, domain.DiagnosisRule{
			Code:              row.Code,
			CategoryName:      row.CategoryName,
			Group:             row.RuleGroup,
			VisualDescription: row.VisualDescription,
			Strategy:          row.Strategy,
			SliderConfig:      cfg,
		})
	}

	s.cache.Set(cacheKeyDiagnoses, rules, cache.NoExpiration)
	return rules, nil
}

// Taxonomy は単一コードの参照です。settings.RuleSource を満たします。
func (s *Store) Taxonomy(ctx context.Context, code string) (domain.TaxonomyRule, bool, error) {
	rules, err := s.Taxonomies(ctx)
	if err != nil {
		return domain.TaxonomyRule{}, false, err
	}
	for _, rule := range rules {
		if rule.Code == code {
			return rule, true, nil
		}
	}
	return domain.TaxonomyRule{}, false, nil
}

// Diagnosis は単一コードの参照です。settings.RuleSource を満たします。
func (s *Store) Diagnosis(ctx context.Context, code string) (domain.DiagnosisRule, bool, error) {
	rules, err := s.Diagnoses(ctx)
	if err != nil {
		return domain.DiagnosisRule{}, false, err
	}
	for _, rule := range rules {
		if rule.Code == code {
			return rule, true, nil
		}
	}
	return domain.DiagnosisRule{}, false, nil
}

// Macros は全マクロをセクション→序数の順で返します。
func (s *Store) Macros(ctx context.Context) ([]domain.Macro, error) {
	if v, ok := s.cache.Get(cacheKeyMacros); ok {
		return v.([]domain.Macro), nil
	}

	var rows []macroRow
	if err := s.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: macros: %v", domain.ErrRuleLoadFailure, err)
	}

	macros := make([]domain.Macro, 0, len(rows))
	for _, row := range rows {
		macros = append(macros, domain.Macro{
			Name:    row.Name,
			Section: row.Section,
			Text:    row.Text,
			Ordinal: row.Ordinal,
		})
	}
	sort.Slice(macros, func(i, j int) bool {
		if macros[i].Section != macros[j].Section {
			return macros[i].Section < macros[j].Section
		}
		return macros[i].Ordinal < macros[j].Ordinal
	})

	s.cache.Set(cacheKeyMacros, macros, cache.NoExpiration)
	return macros, nil
}

// SectionMacros は指定セクションへ注入するテキストを序数順で返します。
func (s *Store) SectionMacros(ctx context.Context, section string) ([]string, error) {
	macros, err := s.Macros(ctx)
	if err != nil {
		return nil, err
	}
	lines := make([]string, 0)
	for _, m := range macros {
		if m.Section == section {
			lines = append(lines, m.Text)
		}
	}
	return lines, nil
}

// Tiers は全利用者層の設定を層名キーのマップで返します。
func (s *Store) Tiers(ctx context.Context) (map[string]domain.TierConfig, error) {
	return s.tiers(ctx)
}

// TierConfig は指定層の設定を返します。未知の層は ok=false です。
func (s *Store) TierConfig(ctx context.Context, tier string) (domain.TierConfig, bool, error) {
	tiers, err := s.tiers(ctx)
	if err != nil {
		return domain.TierConfig{}, false, err
	}
	cfg, ok := tiers[tier]
	return cfg, ok, nil
}

func (s *Store) tiers(ctx context.Context) (map[string]domain.TierConfig, error) {
	if v, ok := s.cache.Get(cacheKeyTiers); ok {
		return v.(map[string]domain.TierConfig), nil
	}

	var rows []tierRow
	if err := s.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: tiers: %v", domain.ErrRuleLoadFailure, err)
	}

	tiers := make(map[string]domain.TierConfig, len(rows))
	for _, row := range rows {
		tiers[row.Tier] = row.toDomain()
	}

	s.cache.Set(cacheKeyTiers, tiers, cache.NoExpiration)
	return tiers, nil
}

// LoadPreset は保存済みプリセットを読み出します。見つからなければ
// ok=false を返し、エラーにはしません。
func (s *Store) LoadPreset(ctx context.Context, id string) (domain.Preset, bool, error) {
	cacheKey := presetKeyPrefix + id
	if v, ok := s.cache.Get(cacheKey); ok {
		return v.(domain.Preset), true, nil
	}

	var row presetRow
	err := s.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Preset{}, false, nil
	}
	if err != nil {
		return domain.Preset{}, false, fmt.Errorf("%w: preset %s: %v", domain.ErrRuleLoadFailure, id, err)
	}

	preset, err := row.toDomain()
	if err != nil {
		return domain.Preset{}, false, fmt.Errorf("%w: %v", domain.ErrRuleLoadFailure, err)
	}

	s.cache.Set(cacheKey, preset, presetTTL)
	return preset, true, nil
}

// SavePreset はプリセットを挿入または置換し、キャッシュ項目を捨てます。
func (s *Store) SavePreset(ctx context.Context, preset domain.Preset) error {
	row, err := presetRowFrom(preset)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Save(&row).Error; err != nil {
		return fmt.Errorf("save preset %s: %w", preset.ID, err)
	}
	s.cache.Delete(presetKeyPrefix + preset.ID)
	return nil
}
