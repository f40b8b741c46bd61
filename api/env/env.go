package env

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// Source reads settings from a viper instance. A key can also be given as
// KEY_FILE, naming a file that holds the value (docker/k8s secrets).
type Source struct {
	v     *viper.Viper
	cache map[string]string
	lock  sync.Mutex
}

func New(v *viper.Viper) *Source {
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return &Source{v: v, cache: make(map[string]string)}
}

func (s *Source) Viper() *viper.Viper {
	return s.v
}

func (s *Source) Get(key string) (string, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	val, exists := s.cache[key]
	if exists {
		return val, nil
	}

	filename := s.v.GetString(key + ".file")
	if filename == "" {
		return s.v.GetString(key), nil
	}
	val, err := readSecret(filename)
	if err != nil {
		return "", err
	}
	//update cache with the full value, so we don't constantly read it
	s.cache[key] = val
	return val, nil
}

func (s *Source) GetOr(key string, def string) string {
	res, _ := s.Get(key)
	if res == "" {
		return def
	}
	return res
}

func (s *Source) GetBoolOr(key string, def bool) bool {
	res, _ := s.Get(key)
	if res == "" {
		return def
	}
	return cast.ToBool(res)
}

func readSecret(file string) (string, error) {
	f, err := os.Open(file)
	if err != nil {
		return "", err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(string(data)), nil
}
