package data

import (
	"fmt"
	"os"

	"github.com/go-kratos/kratos/v2/log"
	"gopkg.in/yaml.v3"

	"github.com/iWorld-y/memo_dashboard/internal/conf"
	"github.com/iWorld-y/memo_dashboard/internal/domain"
	"github.com/iWorld-y/memo_dashboard/internal/repo"
)

type catalogRepo struct {
	codes []domain.NaceCode
}

// NewCatalogRepo 启动时加载一次 NACE 代码表，未配置时为空表
func NewCatalogRepo(c *conf.Dashboard, logger log.Logger) (repo.CatalogRepo, error) {
	if c == nil || c.NaceCatalog == "" {
		return &catalogRepo{}, nil
	}
	codes, err := LoadCatalog(c.NaceCatalog)
	if err != nil {
		return nil, err
	}
	log.NewHelper(logger).Infof("loaded %d NACE codes from %s", len(codes), c.NaceCatalog)
	return &catalogRepo{codes: codes}, nil
}

func (r *catalogRepo) Codes() []domain.NaceCode {
	return r.codes
}

// LoadCatalog 读取 "code: name" 形式的 YAML 映射，保持文件中的顺序
func LoadCatalog(path string) ([]domain.NaceCode, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parse nace catalog: %w", err)
	}
	if len(root.Content) == 0 {
		return nil, nil
	}
	m := root.Content[0]
	if m.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("nace catalog %s: expected a mapping of code to name", path)
	}

	codes := make([]domain.NaceCode, 0, len(m.Content)/2)
	for i := 0; i+1 < len(m.Content); i += 2 {
		codes = append(codes, domain.NaceCode{
			Code: m.Content[i].Value,
			Name: m.Content[i+1].Value,
		})
	}
	return codes, nil
}
