package service

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/go-resty/resty/v2"

	"mercado_validade_v1_202608/pkg/config"
	"mercado_validade_v1_202608/pkg/utils"
)

// ==================== 接口定义 ====================

// StorageProvider 存储提供者接口
// 商品图片以 public 读权限上传，返回可直接渲染的公开 URL
type StorageProvider interface {
	// Upload 上传文件，返回公开访问URL
	Upload(ctx context.Context, data []byte, filename string, contentType string) (url string, err error)

	// Delete 按公开 URL 删除远端对象
	Delete(ctx context.Context, url string) error
}

// ==================== 工厂方法 ====================

// NewStorageProvider 按配置构建存储提供者
func NewStorageProvider(cfg *config.StorageConfig) (StorageProvider, error) {
	switch cfg.Provider {
	case "s3":
		return NewS3Storage(cfg)
	case "vercel":
		return NewVercelBlobStorage(cfg)
	case "local":
		return NewLocalStorage(cfg)
	default:
		return nil, fmt.Errorf("provedor de armazenamento não suportado: %s", cfg.Provider)
	}
}

// objectKey 以清洗后的原始文件名为对象路径
func objectKey(basePath, filename string) string {
	name := utils.SecureFilename(filename)
	if basePath != "" {
		return basePath + "/" + name
	}
	return name
}

func detectContentType(data []byte) string {
	return http.DetectContentType(data)
}

// ==================== S3 实现 ====================

type S3Storage struct {
	client    *s3.Client
	bucket    string
	region    string
	cdnDomain string
	basePath  string
}

func NewS3Storage(cfg *config.StorageConfig) (*S3Storage, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("carregar configuração AWS falhou: %v", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Storage{
		client:    client,
		bucket:    cfg.Bucket,
		region:    cfg.Region,
		cdnDomain: cfg.CDNDomain,
		basePath:  cfg.BasePath,
	}, nil
}

func (s *S3Storage) Upload(ctx context.Context, data []byte, filename string, contentType string) (string, error) {
	key := objectKey(s.basePath, filename)

	if contentType == "" {
		contentType = detectContentType(data)
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
		ACL:         types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return "", fmt.Errorf("upload para S3 falhou: %v", err)
	}

	return s.getPublicURL(key), nil
}

func (s *S3Storage) Delete(ctx context.Context, url string) error {
	key := s.extractKey(url)
	if key == "" {
		return fmt.Errorf("não foi possível extrair o caminho do objeto")
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	return err
}

func (s *S3Storage) getPublicURL(key string) string {
	if s.cdnDomain != "" {
		return fmt.Sprintf("https://%s/%s", s.cdnDomain, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}

func (s *S3Storage) extractKey(url string) string {
	if s.cdnDomain != "" && strings.Contains(url, s.cdnDomain) {
		return strings.TrimPrefix(url, fmt.Sprintf("https://%s/", s.cdnDomain))
	}
	prefix := fmt.Sprintf("https://%s.s3.%s.amazonaws.com/", s.bucket, s.region)
	if !strings.HasPrefix(url, prefix) {
		return ""
	}
	return strings.TrimPrefix(url, prefix)
}

// ==================== Vercel Blob 实现 ====================

// Vercel Blob 的 REST 协议见 https://vercel.com/docs/storage/vercel-blob
const defaultVercelEndpoint = "https://blob.vercel-storage.com"

type VercelBlobStorage struct {
	client   *resty.Client
	endpoint string
	token    string
	basePath string
}

func NewVercelBlobStorage(cfg *config.StorageConfig) (*VercelBlobStorage, error) {
	if cfg.VercelToken == "" {
		return nil, fmt.Errorf("BLOB_READ_WRITE_TOKEN não está definido")
	}

	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = defaultVercelEndpoint
	}

	client := resty.New().
		SetTimeout(30 * time.Second).
		SetAuthToken(cfg.VercelToken).
		SetHeader("x-api-version", "7")

	return &VercelBlobStorage{
		client:   client,
		endpoint: strings.TrimRight(endpoint, "/"),
		token:    cfg.VercelToken,
		basePath: cfg.BasePath,
	}, nil
}

type vercelPutResp struct {
	URL      string `json:"url"`
	Pathname string `json:"pathname"`
}

func (s *VercelBlobStorage) Upload(ctx context.Context, data []byte, filename string, contentType string) (string, error) {
	key := objectKey(s.basePath, filename)

	if contentType == "" {
		contentType = detectContentType(data)
	}

	var result vercelPutResp
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("x-content-type", contentType).
		SetQueryParam("access", "public").
		SetBody(data).
		SetResult(&result).
		Put(s.endpoint + "/" + key)
	if err != nil {
		return "", fmt.Errorf("upload para Vercel Blob falhou: %v", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("upload para Vercel Blob falhou: %s", resp.Status())
	}
	if result.URL == "" {
		return "", fmt.Errorf("resposta do Vercel Blob sem URL")
	}
	return result.URL, nil
}

func (s *VercelBlobStorage) Delete(ctx context.Context, url string) error {
	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(map[string][]string{"urls": {url}}).
		Post(s.endpoint + "/delete")
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("delete no Vercel Blob falhou: %s", resp.Status())
	}
	return nil
}

// ==================== 本地实现（开发/测试） ====================

type LocalStorage struct {
	dir       string
	cdnDomain string
	basePath  string
}

func NewLocalStorage(cfg *config.StorageConfig) (*LocalStorage, error) {
	dir := cfg.Endpoint
	if dir == "" {
		dir = "./uploads"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &LocalStorage{
		dir:       dir,
		cdnDomain: cfg.CDNDomain,
		basePath:  cfg.BasePath,
	}, nil
}

func (s *LocalStorage) Upload(ctx context.Context, data []byte, filename string, contentType string) (string, error) {
	name := utils.SecureFilename(filename)
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", err
	}
	if s.cdnDomain != "" {
		return fmt.Sprintf("https://%s/%s", s.cdnDomain, name), nil
	}
	return "/uploads/" + name, nil
}

func (s *LocalStorage) Delete(ctx context.Context, url string) error {
	name := url[strings.LastIndex(url, "/")+1:]
	if name == "" {
		return fmt.Errorf("não foi possível extrair o caminho do objeto")
	}
	return os.Remove(filepath.Join(s.dir, name))
}
