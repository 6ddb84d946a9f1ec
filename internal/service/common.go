package service

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	MaxVideoSize    = 20 * 1000 * 1000 // 20MB
	tempFolder      = "temp"
	movieFolder     = "movie"
	publicURLPrefix = "public"
)

var allowedVideoTypes = map[string]bool{
	"video/mp4": true,
}

// FileStorage 电影服务只需要“把临时文件转正”这一个能力
type FileStorage interface {
	MovieFilePath(fileName string) string
	MoveToMovieDir(fileName string) (string, error)
}

// CommonService 上传文件落地到public/temp，创建电影时再移动到public/movie
type CommonService interface {
	FileStorage
	SaveVideo(fh *multipart.FileHeader) (string, error)
	EraseOrphanFiles(maxAge time.Duration) (int, error)
}

type commonService struct {
	publicDir string
	now       func() time.Time
}

func NewCommonService(publicDir string) CommonService {
	return &commonService{publicDir: publicDir, now: time.Now}
}

// EnsureDirs 启动时创建上传目录
func EnsureDirs(publicDir string) error {
	for _, dir := range []string{tempFolder, movieFolder} {
		if err := os.MkdirAll(filepath.Join(publicDir, dir), 0o755); err != nil {
			return err
		}
	}
	return nil
}

// 上传视频：1、大小和类型校验 2、生成 <uuid>_<毫秒时间戳>.<扩展名> 的文件名 3、写入temp目录
func (s *commonService) SaveVideo(fh *multipart.FileHeader) (string, error) {
	if fh.Size > MaxVideoSize {
		return "", ErrFileTooLarge
	}
	if !allowedVideoTypes[fh.Header.Get("Content-Type")] {
		return "", ErrUnsupportedFile
	}

	fileName := s.newFileName(fh.Filename)
	dst := filepath.Join(s.publicDir, tempFolder, fileName)

	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	// 多读一个字节，用来发现Size头和实际内容不符的情况
	n, err := io.Copy(out, io.LimitReader(src, MaxVideoSize+1))
	closeErr := out.Close()
	if err == nil {
		err = closeErr
	}
	if err == nil && n > MaxVideoSize {
		err = ErrFileTooLarge
	}
	if err != nil {
		_ = os.Remove(dst)
		return "", err
	}
	return fileName, nil
}

func (s *commonService) newFileName(clientName string) string {
	extension := "mp4"
	if split := strings.Split(clientName, "."); len(split) > 1 {
		extension = split[len(split)-1]
	}
	return fmt.Sprintf("%s_%d.%s", uuid.NewString(), s.now().UnixMilli(), extension)
}

// MoveToMovieDir 把temp里的文件移动到movie目录，返回对外访问路径 public/movie/<文件名>
func (s *commonService) MoveToMovieDir(fileName string) (string, error) {
	// 只接受纯文件名，防止路径穿越
	if fileName == "" || filepath.Base(fileName) != fileName || strings.Contains(fileName, "..") {
		return "", ErrFileNotFound
	}
	src := filepath.Join(s.publicDir, tempFolder, fileName)
	if _, err := os.Stat(src); err != nil {
		if os.IsNotExist(err) {
			return "", ErrFileNotFound
		}
		return "", err
	}
	dst := filepath.Join(s.publicDir, movieFolder, fileName)
	if err := os.Rename(src, dst); err != nil {
		return "", err
	}
	return s.MovieFilePath(fileName), nil
}

// MovieFilePath 文件转正后对外的访问路径
func (s *commonService) MovieFilePath(fileName string) string {
	return publicURLPrefix + "/" + movieFolder + "/" + fileName
}

// EraseOrphanFiles 删除temp目录里超过maxAge还没被电影认领的文件，时间取自文件名里的毫秒时间戳
func (s *commonService) EraseOrphanFiles(maxAge time.Duration) (int, error) {
	dir := filepath.Join(s.publicDir, tempFolder)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}

	now := s.now()
	removed := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		createdAt, ok := uploadTime(e.Name())
		if ok && now.Sub(createdAt) <= maxAge {
			continue
		}
		if err := os.Remove(filepath.Join(dir, e.Name())); err != nil && !os.IsNotExist(err) {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

// 从 <uuid>_<毫秒时间戳>.<扩展名> 中取出时间
func uploadTime(name string) (time.Time, bool) {
	split := strings.SplitN(name, "_", 2)
	if len(split) != 2 {
		return time.Time{}, false
	}
	stamp := split[1]
	if i := strings.Index(stamp, "."); i >= 0 {
		stamp = stamp[:i]
	}
	ms, err := strconv.ParseInt(stamp, 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.UnixMilli(ms), true
}
