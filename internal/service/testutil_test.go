package service

import (
	"context"
	"errors"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"mercado_validade_v1_202608/internal/model"
	"mercado_validade_v1_202608/pkg/utils"
)

// ==================== 测试辅助 ====================

func setupServiceTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("连接测试数据库失败: %v", err)
	}

	if err := db.AutoMigrate(&model.Merchant{}, &model.Product{}); err != nil {
		t.Fatalf("建表失败: %v", err)
	}
	return db
}

// fakeStorage 记录上传/删除调用的内存存储
type fakeStorage struct {
	uploads    []string
	deletes    []string
	failUpload bool
	failDelete bool
}

func (f *fakeStorage) Upload(ctx context.Context, data []byte, filename string, contentType string) (string, error) {
	if f.failUpload {
		return "", errors.New("bucket indisponível")
	}
	url := "https://cdn.test/" + utils.SecureFilename(filename)
	f.uploads = append(f.uploads, url)
	return url, nil
}

func (f *fakeStorage) Delete(ctx context.Context, url string) error {
	if f.failDelete {
		return errors.New("objeto bloqueado")
	}
	f.deletes = append(f.deletes, url)
	return nil
}

func intPtr(v int) *int { return &v }
