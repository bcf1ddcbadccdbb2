package network

import (
	"fmt"
	"net"
)

// BroadcastAddrs returns the directed broadcast address of every IPv4 subnet
// attached to an up, broadcast-capable interface.
func BroadcastAddrs() ([]net.IP, error) {
	// 利用可能なネットワークインターフェースを取得
	interfaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}

	var result []net.IP
	for _, iface := range interfaces {
		// ループバックや無効なインターフェースをスキップ
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 || iface.Flags&net.FlagBroadcast == 0 {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}

		for _, addr := range addrs {
			ipNet, ok := addr.(*net.IPNet)
			if !ok {
				continue
			}
			if bcast := broadcastAddr(ipNet); bcast != nil {
				result = append(result, bcast)
			}
		}
	}
	return result, nil
}

// broadcastAddr is the host part of n set to all ones, or nil for non IPv4 nets.
func broadcastAddr(n *net.IPNet) net.IP {
	ip := n.IP.To4()
	if ip == nil || len(n.Mask) != net.IPv4len {
		return nil
	}
	ones, _ := n.Mask.Size()
	if ones >= 31 {
		// /31, /32 にはブロードキャストがない
		return nil
	}

	bcast := make(net.IP, net.IPv4len)
	for i := range ip {
		bcast[i] = ip[i] | ^n.Mask[i]
	}
	return bcast
}

// LocalIPv4 picks the address other devices on the LAN most likely reach us on.
func LocalIPv4() (net.IP, error) {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return nil, err
	}

	var fallback net.IP
	for _, addr := range addrs {
		ipNet, ok := addr.(*net.IPNet)
		if !ok || ipNet.IP.IsLoopback() || ipNet.IP.To4() == nil {
			continue
		}
		// プライベートIPアドレスを優先
		if ipNet.IP.IsPrivate() {
			return ipNet.IP.To4(), nil
		}
		if fallback == nil {
			fallback = ipNet.IP.To4()
		}
	}
	if fallback != nil {
		return fallback, nil
	}
	return nil, fmt.Errorf("no suitable local IP address found")
}
