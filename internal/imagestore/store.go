// Package imagestore はレシピ画像ファイルのライフサイクル管理を提供する。
//
// 画像はアップロード時の元ファイル名のまま共有ディレクトリに保存される。
// 同名の別ファイルが既に存在する場合は上書きせず衝突エラーで失敗する。
// 同梱のシード画像は、どのレシピからも参照されなくなっても削除されない。
package imagestore

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ilyassman/super-recipe-roulette/internal/model"
)

// allowedExtensions はアップロードを許可する画像拡張子。
var allowedExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".webp": {},
}

// SeedImages は削除から常に保護されるシード画像のファイル名。
var SeedImages = []string{
	"poulet_roi.jpg",
	"salade_cesar.jpg",
	"tarte_pommes.jpg",
	"carbonara.jpg",
	"omelette_champignons.jpg",
	"brownies_chocolat.jpg",
	"veloute_potiron.jpg",
}

// Metrics は画像の保存・削除を記録するメトリクスの部分インターフェース。
type Metrics interface {
	RecordImageSaved()
	RecordImageRemoved()
}

// Store は共有画像ディレクトリへの保存・削除を管理する。
type Store struct {
	dir     string
	seeds   map[string]struct{}
	metrics Metrics
	logger  *slog.Logger
}

// New はStoreを生成する。
func New(dir string, m Metrics, logger *slog.Logger) *Store {
	seeds := make(map[string]struct{}, len(SeedImages))
	for _, name := range SeedImages {
		seeds[name] = struct{}{}
	}
	return &Store{
		dir:     dir,
		seeds:   seeds,
		metrics: m,
		logger:  logger,
	}
}

// Dir は管理対象の画像ディレクトリを返す。
func (s *Store) Dir() string {
	return s.dir
}

// Normalize はパス込みの画像参照をベースファイル名に正規化する。
// 旧データには "/assets/img/uploads/xxx.jpg" のようなパスを保存した
// レコードが残っているため、比較・保存の前に必ず正規化する。
func Normalize(name string) string {
	if name == "" {
		return ""
	}
	// Windows形式の区切りも許容する
	if i := strings.LastIndex(name, "\\"); i >= 0 {
		name = name[i+1:]
	}
	return filepath.Base(name)
}

// NormalizeRef はポインタ形式の画像参照を正規化する。nilはそのまま返す。
func NormalizeRef(name *string) *string {
	if name == nil {
		return nil
	}
	n := Normalize(*name)
	if n == "" || n == "." {
		return nil
	}
	return &n
}

// Save はアップロードファイルを検証して保存し、保存後のファイル名を返す。
//
// uploadがnilの場合は既存の参照（正規化済み）をそのまま返す。
// 拡張子が許可リスト外の場合はINVALID_IMAGE_FORMATで失敗する。
// 同名ファイルが既に存在する場合、それがpreviousと同一名であれば
// 冪等な再保存として成功し、別ファイルであればIMAGE_NAME_CONFLICTで失敗する。
// 保存先ディレクトリは存在しなければ作成する。
func (s *Store) Save(upload *model.UploadedFile, previous *string) (*string, error) {
	prev := NormalizeRef(previous)

	if upload == nil {
		return prev, nil
	}

	filename := Normalize(upload.Name)
	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := allowedExtensions[ext]; !ok {
		return nil, model.NewInvalidImageFormatError(filename)
	}

	target := filepath.Join(s.dir, filename)

	if _, err := os.Stat(target); err == nil {
		// 自レシピの現行画像の再アップロードはno-opとして受け入れる
		if prev != nil && *prev == filename {
			return &filename, nil
		}
		return nil, model.NewImageNameConflictError(filename)
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, err
	}

	if err := os.WriteFile(target, upload.Data, 0o644); err != nil {
		return nil, err
	}

	s.metrics.RecordImageSaved()

	return &filename, nil
}

// IsSeed は指定ファイル名がシード画像かどうかを返す。
func (s *Store) IsSeed(name string) bool {
	_, ok := s.seeds[Normalize(name)]
	return ok
}

// Remove は画像ファイルを削除する。シード画像は削除しない。
//
// 削除失敗はログに記録して握りつぶす。DB側の集約状態が既に正しい以上、
// ファイル掃除の失敗で操作全体を失敗扱いにはしない。
func (s *Store) Remove(name *string) {
	if name == nil {
		return
	}
	filename := Normalize(*name)
	if filename == "" {
		return
	}

	if s.IsSeed(filename) {
		s.logger.Info("シード画像のため削除をスキップしました",
			slog.String("image", filename),
		)
		return
	}

	target := filepath.Join(s.dir, filename)
	if err := os.Remove(target); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.logger.Error("画像ファイルの削除に失敗しました",
				slog.String("image", filename),
				slog.String("error", err.Error()),
			)
		}
		return
	}

	s.metrics.RecordImageRemoved()
	s.logger.Info("画像ファイルを削除しました",
		slog.String("image", filename),
	)
}
