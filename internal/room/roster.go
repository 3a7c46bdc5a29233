package room

import "codewords/internal/shared"

// Join appends p to the roster. Usernames are unique per room and each team
// holds at most one spymaster.
func Join(r *shared.Room, p shared.Player) error {
	if p.Username == "" || !p.Role.Valid() || !p.Team.Valid() {
		return ErrValidation
	}
	if r.MaxPlayers > 0 && len(r.Players) >= r.MaxPlayers {
		return ErrRoomFull
	}
	for _, existing := range r.Players {
		if existing.Username == p.Username {
			return ErrUsernameTaken
		}
	}
	if p.Role == shared.RoleSpymaster {
		for _, existing := range r.Players {
			if existing.Role == shared.RoleSpymaster && existing.Team == p.Team {
				return ErrSpymasterTaken
			}
		}
	}
	r.Players = append(r.Players, p)
	return nil
}

// Leave removes username from the roster. A missing username is a no-op,
// not an error. The boolean reports whether the roster is now empty,
// signaling the caller to destroy the room.
func Leave(r *shared.Room, username string) bool {
	for i, p := range r.Players {
		if p.Username == username {
			r.Players = append(r.Players[:i], r.Players[i+1:]...)
			break
		}
	}
	return len(r.Players) == 0
}
