package pswarm

import "fmt"

// Table names for run recording. Every row carries the run's uuid so
// several runs can share one database file. Position components are
// stored as one REAL column per dimension (x0, x1, ...).
const (
	// TblParticles contains positions and values for all particles at
	// each iteration (iteration 0 is the initialization pass).
	TblParticles = "swarmparticles"
	// TblParticlesBest contains each particle's personal best at each
	// iteration.
	TblParticlesBest = "swarmparticlesbest"
	// TblBest contains the swarm-wide best at each iteration.
	TblBest = "swarmbest"
)

func (o *Optimizer) initdb() error {
	if o.db == nil {
		return nil
	}

	s := "CREATE TABLE IF NOT EXISTS " + TblParticles + " (runid TEXT, particle INTEGER, iter INTEGER, val REAL"
	s += o.xdbsql("define")
	s += ");"
	if _, err := o.db.Exec(s); err != nil {
		return fmt.Errorf("pswarm: creating table %v: %w", TblParticles, err)
	}

	s = "CREATE TABLE IF NOT EXISTS " + TblParticlesBest + " (runid TEXT, particle INTEGER, iter INTEGER, best REAL"
	s += o.xdbsql("define")
	s += ");"
	if _, err := o.db.Exec(s); err != nil {
		return fmt.Errorf("pswarm: creating table %v: %w", TblParticlesBest, err)
	}

	s = "CREATE TABLE IF NOT EXISTS " + TblBest + " (runid TEXT, iter INTEGER, val REAL"
	s += o.xdbsql("define")
	s += ");"
	if _, err := o.db.Exec(s); err != nil {
		return fmt.Errorf("pswarm: creating table %v: %w", TblBest, err)
	}
	return nil
}

func (o *Optimizer) xdbsql(op string) string {
	s := ""
	for i := range o.params.Low {
		switch op {
		case "?":
			s += ",?"
		case "define":
			s += fmt.Sprintf(",x%v REAL", i)
		case "x":
			s += fmt.Sprintf(",x%v", i)
		default:
			panic("invalid db op " + op)
		}
	}
	return s
}

func pos2iface(pos []float64) []any {
	iface := make([]any, 0, len(pos))
	for _, v := range pos {
		iface = append(iface, v)
	}
	return iface
}

func (o *Optimizer) recordIter(iter int) error {
	if o.db == nil {
		return nil
	}

	tx, err := o.db.Begin()
	if err != nil {
		return fmt.Errorf("pswarm: recording iteration %v: %w", iter, err)
	}

	s0 := "INSERT INTO " + TblParticles + " (runid,particle,iter,val" + o.xdbsql("x") + ") VALUES (?,?,?,?" + o.xdbsql("?") + ");"
	s1 := "INSERT INTO " + TblParticlesBest + " (runid,particle,iter,best" + o.xdbsql("x") + ") VALUES (?,?,?,?" + o.xdbsql("?") + ");"
	for _, p := range o.swarm {
		args := []any{o.runid, p.Id, iter, p.Val}
		args = append(args, pos2iface(p.Pos())...)
		if _, err := tx.Exec(s0, args...); err != nil {
			tx.Rollback()
			return fmt.Errorf("pswarm: recording iteration %v: %w", iter, err)
		}

		args = []any{o.runid, p.Id, iter, p.Best.Val}
		args = append(args, pos2iface(p.Best.Pos())...)
		if _, err := tx.Exec(s1, args...); err != nil {
			tx.Rollback()
			return fmt.Errorf("pswarm: recording iteration %v: %w", iter, err)
		}
	}

	s2 := "INSERT INTO " + TblBest + " (runid,iter,val" + o.xdbsql("x") + ") VALUES (?,?,?" + o.xdbsql("?") + ");"
	args := []any{o.runid, iter, o.best.Val}
	args = append(args, pos2iface(o.best.Pos())...)
	if _, err := tx.Exec(s2, args...); err != nil {
		tx.Rollback()
		return fmt.Errorf("pswarm: recording iteration %v: %w", iter, err)
	}

	return tx.Commit()
}
