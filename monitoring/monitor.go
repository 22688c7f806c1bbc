// Package monitoring turns a running simulation into an HTTP server so the
// agents and connections can be observed from outside the process.
package monitoring

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"
	"sync"

	// Enable profiling
	_ "net/http/pprof"

	"github.com/gorilla/mux"
	"github.com/pkg/browser"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"

	"github.com/sarchlab/qnet/sim"
)

// Monitor can turn a simulation into a server that allows external
// observation of agents, connections, and resource usage.
//
// Agents keep running while the monitor serves; the snapshots it reports
// are best effort and may be slightly stale.
type Monitor struct {
	portNumber int

	lock      sync.Mutex
	agents    []*sim.Agent
	qConnects []*sim.QConnect
	cConnects []*sim.CConnect
}

// NewMonitor creates a new Monitor
func NewMonitor() *Monitor {
	return &Monitor{}
}

// WithPortNumber sets the port number of the monitor.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is assigned to the monitoring server, "+
				"which is not allowed. Using a random port instead.\n",
			portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// RegisterAgent registers an agent to be monitored.
func (m *Monitor) RegisterAgent(a *sim.Agent) {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.agents = append(m.agents, a)
}

// RegisterQConnect registers a quantum connection to be monitored.
func (m *Monitor) RegisterQConnect(c *sim.QConnect) {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.qConnects = append(m.qConnects, c)
}

// RegisterCConnect registers a classical connection to be monitored.
func (m *Monitor) RegisterCConnect(c *sim.CConnect) {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.cConnects = append(m.cConnects, c)
}

// StartServer starts the monitor as a web server.
func (m *Monitor) StartServer() string {
	r := mux.NewRouter()

	r.HandleFunc("/api/agents", m.listAgents)
	r.HandleFunc("/api/agents/{name}", m.listAgentDetails)
	r.HandleFunc("/api/connections", m.listConnections)
	r.HandleFunc("/api/resource", m.listResources)
	http.Handle("/", r)

	actualPort := ":0"
	if m.portNumber > 1000 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	dieOnErr(err)

	url := fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)
	fmt.Fprintf(os.Stderr, "Monitoring simulation with %s\n", url)

	go func() {
		err = http.Serve(listener, nil)
		dieOnErr(err)
	}()

	return url
}

// StartServerAndOpenBrowser starts the monitor and opens its address in
// the default browser.
func (m *Monitor) StartServerAndOpenBrowser() {
	url := m.StartServer()

	err := browser.OpenURL(url + "/api/agents")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open browser: %s\n", err)
	}
}

type agentRsp struct {
	Name      string  `json:"name"`
	Time      float64 `json:"time"`
	NumQubits int     `json:"num_qubits"`
}

func (m *Monitor) listAgents(w http.ResponseWriter, _ *http.Request) {
	m.lock.Lock()
	defer m.lock.Unlock()

	rsp := make([]agentRsp, 0, len(m.agents))
	for _, a := range m.agents {
		rsp = append(rsp, agentRsp{
			Name:      a.Name(),
			Time:      float64(a.Now()),
			NumQubits: len(a.Qubits()),
		})
	}

	bytes, err := json.Marshal(rsp)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

// agentSnapshot is what the detail endpoint serializes. Serializing the
// agent itself would read its state without the guarding lock.
type agentSnapshot struct {
	Name   string
	Time   float64
	Qubits []sim.Qubit
}

func (m *Monitor) listAgentDetails(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	agent := m.findAgentOr404(w, name)
	if agent == nil {
		return
	}

	snapshot := agentSnapshot{
		Name:   agent.Name(),
		Time:   float64(agent.Now()),
		Qubits: agent.Qubits(),
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(snapshot)
	serializer.SetMaxDepth(2)
	err := serializer.Serialize(w)

	dieOnErr(err)
}

type connRsp struct {
	Name    string         `json:"name"`
	Kind    string         `json:"kind"`
	Pending map[string]int `json:"pending"`
}

func (m *Monitor) listConnections(w http.ResponseWriter, _ *http.Request) {
	m.lock.Lock()
	defer m.lock.Unlock()

	rsp := make([]connRsp, 0, len(m.qConnects)+len(m.cConnects))

	for _, c := range m.qConnects {
		rsp = append(rsp, connRsp{
			Name:    c.Name(),
			Kind:    string(sim.TransmissionQuantum),
			Pending: pendingPerAgent(c),
		})
	}

	for _, c := range m.cConnects {
		rsp = append(rsp, connRsp{
			Name:    c.Name(),
			Kind:    string(sim.TransmissionClassical),
			Pending: pendingPerAgent(c),
		})
	}

	bytes, err := json.Marshal(rsp)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

type pendingCounter interface {
	AgentNames() []string
	PendingFor(agentName string) int
}

func pendingPerAgent(c pendingCounter) map[string]int {
	pending := make(map[string]int)
	for _, name := range c.AgentNames() {
		pending[name] = c.PendingFor(name)
	}

	return pending
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	pid := os.Getpid()
	process, err := process.NewProcess(int32(pid))
	dieOnErr(err)

	cpuPercent, err := process.CPUPercent()
	dieOnErr(err)

	memorySize, err := process.MemoryInfo()
	dieOnErr(err)

	rsp := resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memorySize.RSS,
	}

	bytes, err := json.Marshal(rsp)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func (m *Monitor) findAgentOr404(
	w http.ResponseWriter,
	name string,
) *sim.Agent {
	m.lock.Lock()
	defer m.lock.Unlock()

	for _, a := range m.agents {
		if a.Name() == name {
			return a
		}
	}

	w.WriteHeader(http.StatusNotFound)

	return nil
}

func dieOnErr(err error) {
	if err != nil {
		panic(err)
	}
}
