package registry

// Reconcile joins discovered skills with the entries found at each target.
// A target counts a skill as present only when one of its entries is a
// symlink resolving exactly to the skill's source path; plain directory
// copies never match. Every returned Skill carries one status per target.
func Reconcile(raw []RawSkill, targets []string, entriesByTarget map[string][]InstalledEntry) []*Skill {
	indexes := make(map[string]map[string]InstalledEntry, len(targets))
	for _, t := range targets {
		indexes[t] = indexLinks(entriesByTarget[t])
	}

	skills := make([]*Skill, 0, len(raw))
	for _, r := range raw {
		s := &Skill{
			Name:         r.Name,
			Description:  r.Description,
			Version:      r.Version,
			SourcePath:   r.SourcePath,
			SourceName:   r.SourceName,
			TargetStatus: make(map[string]Status, len(targets)),
		}
		for _, t := range targets {
			match, ok := indexes[t][r.SourcePath]
			switch {
			case !ok:
				s.TargetStatus[t] = StatusNotInstalled
			case match.Disabled:
				s.TargetStatus[t] = StatusDisabled
			default:
				s.TargetStatus[t] = StatusInstalled
			}
			if ok && s.InstallName == "" {
				s.InstallName = match.Name
			}
		}
		s.Refresh()
		skills = append(skills, s)
	}
	return skills
}

// indexLinks maps resolved paths to the first symlink entry pointing there.
// Scan order puts enabled entries ahead of disabled ones.
func indexLinks(entries []InstalledEntry) map[string]InstalledEntry {
	idx := make(map[string]InstalledEntry, len(entries))
	for _, e := range entries {
		if !e.IsSymlink || e.RealPath == "" {
			continue
		}
		if _, exists := idx[e.RealPath]; !exists {
			idx[e.RealPath] = e
		}
	}
	return idx
}
