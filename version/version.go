// Package version 提供 openai-kit 的构建版本信息。
// 版本信息通过 -ldflags 在构建时注入，例如：
//
//	go build -ldflags "-X github.com/lgc202/openai-kit/version.gitVersion=v0.3.0" ./cmd/openai
//
// 未注入时回退到 go install 记录的模块版本。
package version

import (
	"encoding/json"
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/gosuri/uitable"
)

// Product 产品名，用于 User-Agent
const Product = "openai-kit"

const defaultGitVersion = "v0.0.0-master"

var (
	// gitVersion 语义化版本号，格式为 vMAJOR.MINOR.PATCH[-PRERELEASE][+BUILD]
	gitVersion = defaultGitVersion
	// gitCommit 构建时 $(git rev-parse HEAD) 的输出
	gitCommit = ""
	// gitTreeState 构建时 Git 仓库的状态，clean 或 dirty
	gitTreeState = ""
	// buildDate ISO8601 格式的构建时间
	buildDate = ""
)

// Info 版本信息
type Info struct {
	GitVersion   string `json:"gitVersion"`
	GitCommit    string `json:"gitCommit,omitempty"`
	GitTreeState string `json:"gitTreeState,omitempty"`
	BuildDate    string `json:"buildDate,omitempty"`
	GoVersion    string `json:"goVersion"`
	Platform     string `json:"platform"`
}

// Get 返回当前二进制的版本信息
func Get() Info {
	info := Info{
		GitVersion:   gitVersion,
		GitCommit:    gitCommit,
		GitTreeState: gitTreeState,
		BuildDate:    buildDate,
		GoVersion:    runtime.Version(),
		Platform:     runtime.GOOS + "/" + runtime.GOARCH,
	}
	if info.GitVersion == defaultGitVersion {
		fillFromBuildInfo(&info)
	}
	return info
}

func fillFromBuildInfo(info *Info) {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	if v := bi.Main.Version; v != "" && v != "(devel)" {
		info.GitVersion = v
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.GitCommit == "" {
				info.GitCommit = s.Value
			}
		case "vcs.time":
			if info.BuildDate == "" {
				info.BuildDate = s.Value
			}
		case "vcs.modified":
			if info.GitTreeState == "" {
				if s.Value == "true" {
					info.GitTreeState = "dirty"
				} else {
					info.GitTreeState = "clean"
				}
			}
		}
	}
}

// String 返回版本号，工作区有未提交修改时追加 -dirty
func (info Info) String() string {
	if info.GitTreeState == "dirty" {
		return info.GitVersion + "-dirty"
	}
	return info.GitVersion
}

// ToJSON 以 JSON 格式返回版本信息
func (info Info) ToJSON(indent bool) (string, error) {
	var (
		b   []byte
		err error
	)
	if indent {
		b, err = json.MarshalIndent(info, "", "  ")
	} else {
		b, err = json.Marshal(info)
	}
	if err != nil {
		return "", fmt.Errorf("failed to marshal version info: %w", err)
	}
	return string(b), nil
}

// Text 以对齐的表格形式返回版本信息，空字段不输出
func (info Info) Text() string {
	table := uitable.New()
	table.RightAlign(0)
	table.MaxColWidth = 80
	table.Separator = " "
	for _, row := range [][2]string{
		{"version:", info.String()},
		{"gitCommit:", info.GitCommit},
		{"buildDate:", info.BuildDate},
		{"goVersion:", info.GoVersion},
		{"platform:", info.Platform},
	} {
		if row[1] != "" {
			table.AddRow(row[0], row[1])
		}
	}
	return table.String()
}

// UserAgent 返回请求使用的默认 User-Agent，例如 "openai-kit/v0.3.0 (linux/amd64; go1.24.0)"
func UserAgent() string {
	info := Get()
	return fmt.Sprintf("%s/%s (%s; %s)", Product, strings.TrimSpace(info.String()), info.Platform, info.GoVersion)
}
