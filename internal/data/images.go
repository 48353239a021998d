package data

import (
	"net/url"
	"os"
	"path"
	"path/filepath"

	"github.com/iWorld-y/memo_dashboard/internal/conf"
	"github.com/iWorld-y/memo_dashboard/internal/repo"
)

// StaticPrefix 图表文件的访问前缀
const StaticPrefix = "/static/"

type imageRepo struct {
	dir string
}

func NewImageRepo(c *conf.Dashboard) repo.ImageRepo {
	dir := "static"
	if c != nil && c.ImageDir != "" {
		dir = c.ImageDir
	}
	return &imageRepo{dir: dir}
}

func (r *imageRepo) Resolve(name string) (string, string, bool) {
	attempted := filepath.Join(r.dir, name)
	// 只允许目录内的相对路径
	if name == "" || !filepath.IsLocal(name) {
		return "", attempted, false
	}
	info, err := os.Stat(attempted)
	if err != nil || info.IsDir() {
		return "", attempted, false
	}
	u := url.URL{Path: path.Join(StaticPrefix, filepath.ToSlash(filepath.Clean(name)))}
	return u.EscapedPath(), attempted, true
}
