package api_router

import (
	"os"
	"runtime"
	"time"

	"github.com/haierkeys/note-share-service/internal/app"
	pkgapp "github.com/haierkeys/note-share-service/pkg/app"
	"github.com/haierkeys/note-share-service/pkg/code"
	"github.com/haierkeys/note-share-service/pkg/workerpool"
	"github.com/haierkeys/note-share-service/pkg/writequeue"

	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/load"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/process"
)

// cpuSampleInterval CPU 使用率采样时长
const cpuSampleInterval = 200 * time.Millisecond

// AdminHandler admin API router handler
// AdminHandler 管理员 API 路由处理器
type AdminHandler struct {
	*Handler
}

// NewAdminHandler creates AdminHandler instance
// NewAdminHandler 创建 AdminHandler 实例
func NewAdminHandler(a *app.App) *AdminHandler {
	return &AdminHandler{
		Handler: NewHandler(a),
	}
}

// SystemInfo 系统信息
type SystemInfo struct {
	StartTime     time.Time          `json:"startTime"`     // 服务启动时间
	Uptime        float64            `json:"uptime"`        // 运行时长（秒）
	RuntimeStatus RuntimeInfo        `json:"runtimeStatus"` // Go 运行时
	CPU           CPUInfo            `json:"cpu"`
	Memory        MemoryInfo         `json:"memory"`
	Host          HostInfo           `json:"host"`
	Process       ProcessInfo        `json:"process"`
	WorkerPool    workerpool.Metrics `json:"workerPool"` // 后台任务池
	WriteQueue    writequeue.Metrics `json:"writeQueue"` // 笔记写队列
}

// RuntimeInfo Go 运行时信息
type RuntimeInfo struct {
	NumGoroutine int    `json:"numGoroutine"`
	MemAlloc     uint64 `json:"memAlloc"`
	MemTotal     uint64 `json:"memTotal"`
	MemSys       uint64 `json:"memSys"`
	HeapSys      uint64 `json:"heapSys"`
	HeapIdle     uint64 `json:"heapIdle"`
	HeapInuse    uint64 `json:"heapInuse"`
	HeapReleased uint64 `json:"heapReleased"`
	StackSys     uint64 `json:"stackSys"`
	GCSys        uint64 `json:"gcSys"`
	NextGC       uint64 `json:"nextGC"`
	NumGC        uint32 `json:"numGC"`
}

// CPUInfo CPU 信息
type CPUInfo struct {
	ModelName     string    `json:"modelName"`
	PhysicalCores int       `json:"physicalCores"`
	LogicalCores  int       `json:"logicalCores"`
	Percent       []float64 `json:"percent"`
	LoadAvg       *LoadInfo `json:"loadAvg,omitempty"`
}

// LoadInfo 系统负载
type LoadInfo struct {
	Load1  float64 `json:"load1"`
	Load5  float64 `json:"load5"`
	Load15 float64 `json:"load15"`
}

// MemoryInfo 内存信息
type MemoryInfo struct {
	Total           uint64  `json:"total"`
	Available       uint64  `json:"available"`
	Used            uint64  `json:"used"`
	UsedPercent     float64 `json:"usedPercent"`
	SwapTotal       uint64  `json:"swapTotal"`
	SwapUsed        uint64  `json:"swapUsed"`
	SwapUsedPercent float64 `json:"swapUsedPercent"`
}

// HostInfo 主机信息
type HostInfo struct {
	Hostname       string    `json:"hostname"`
	OS             string    `json:"os"`
	Platform       string    `json:"platform"`
	Arch           string    `json:"arch"`
	KernelVersion  string    `json:"kernelVersion"`
	Uptime         uint64    `json:"uptime"`
	CurrentTime    time.Time `json:"currentTime"`
	TimeZone       string    `json:"timeZone"`
	TimeZoneOffset int       `json:"timeZoneOffset"`
}

// ProcessInfo 进程信息
type ProcessInfo struct {
	PID           int32   `json:"pid"`
	PPID          int32   `json:"ppid"`
	Name          string  `json:"name"`
	CPUPercent    float64 `json:"cpuPercent"`
	MemoryPercent float32 `json:"memoryPercent"`
}

// GetSystemInfo returns host, runtime and queue information
// @Summary Get system info
// @Description Admin only. Host, Go runtime, worker pool and write queue information.
// @Description 仅管理员可用，返回主机、运行时、任务池与写队列信息。
// @Tags System
// @Security UserAuthToken
// @Produce json
// @Success 200 {object} pkgapp.Res{data=SystemInfo} "Success"
// @Failure 403 {object} pkgapp.Res "Admin Only"
// @Router /api/admin/systeminfo [get]
func (h *AdminHandler) GetSystemInfo(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	data := SystemInfo{
		StartTime: h.App.StartTime,
		Uptime:    time.Since(h.App.StartTime).Seconds(),
		RuntimeStatus: RuntimeInfo{
			NumGoroutine: runtime.NumGoroutine(),
			MemAlloc:     m.Alloc,
			MemTotal:     m.TotalAlloc,
			MemSys:       m.Sys,
			HeapSys:      m.HeapSys,
			HeapIdle:     m.HeapIdle,
			HeapInuse:    m.HeapInuse,
			HeapReleased: m.HeapReleased,
			StackSys:     m.StackSys,
			GCSys:        m.GCSys,
			NextGC:       m.NextGC,
			NumGC:        m.NumGC,
		},
		CPU:        cpuInfo(),
		Memory:     memoryInfo(),
		Host:       hostInfo(),
		Process:    processInfo(),
		WorkerPool: h.App.WorkerPool().GetMetrics(),
		WriteQueue: h.App.WriteQueueManager().GetMetrics(),
	}

	response.ToResponse(code.Success.WithData(data))
}

// gopsutil 在部分平台不支持某些采集项，失败时保留零值

func cpuInfo() CPUInfo {
	out := CPUInfo{}
	if list, err := cpu.Info(); err == nil && len(list) > 0 {
		out.ModelName = list[0].ModelName
	}
	out.PhysicalCores, _ = cpu.Counts(false)
	out.LogicalCores, _ = cpu.Counts(true)
	out.Percent, _ = cpu.Percent(cpuSampleInterval, true)
	if avg, err := load.Avg(); err == nil && avg != nil {
		out.LoadAvg = &LoadInfo{Load1: avg.Load1, Load5: avg.Load5, Load15: avg.Load15}
	}
	return out
}

func memoryInfo() MemoryInfo {
	out := MemoryInfo{}
	if v, err := mem.VirtualMemory(); err == nil && v != nil {
		out.Total = v.Total
		out.Available = v.Available
		out.Used = v.Used
		out.UsedPercent = v.UsedPercent
	}
	if s, err := mem.SwapMemory(); err == nil && s != nil {
		out.SwapTotal = s.Total
		out.SwapUsed = s.Used
		out.SwapUsedPercent = s.UsedPercent
	}
	return out
}

func hostInfo() HostInfo {
	now := time.Now()
	_, offset := now.Zone()
	out := HostInfo{
		CurrentTime:    now,
		TimeZone:       now.Location().String(),
		TimeZoneOffset: offset,
	}
	if info, err := host.Info(); err == nil && info != nil {
		out.Hostname = info.Hostname
		out.OS = info.OS
		out.Platform = info.Platform
		out.Arch = info.KernelArch
		out.KernelVersion = info.KernelVersion
		out.Uptime = info.Uptime
	}
	return out
}

func processInfo() ProcessInfo {
	out := ProcessInfo{PID: int32(os.Getpid())}
	p, err := process.NewProcess(out.PID)
	if err != nil {
		return out
	}
	out.PPID, _ = p.Ppid()
	out.Name, _ = p.Name()
	out.CPUPercent, _ = p.CPUPercent()
	out.MemoryPercent, _ = p.MemoryPercent()
	return out
}
