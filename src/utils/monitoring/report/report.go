package report

type Report struct {
	Deployer    *DeployerReport    `json:"deployer,omitempty"`
	NetworkInfo *NetworkInfoReport `json:"network_info,omitempty"`
}
